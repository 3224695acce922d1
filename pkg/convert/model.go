package convert

// placeholderNA marks a legacy technical-detail field with no known value.
const placeholderNA = "NA"

// modelCommentSections declares the consolidation order for the canonical
// Comments field: two raw paragraphs followed by labeled sections.
var modelCommentSections = []section{
	{source: "medical_task"},
	{source: "model_architecture"},
	{source: "model_code_availability", label: "Code Availability"},
	{source: "sustainability", label: "Sustainability"},
	{source: "time_to_train", label: "Training Time"},
	{source: "time_to_inference", label: "Inference Time"},
	{source: "hardware_requirements", label: "Hardware"},
}

// modelTechnicalDetails maps canonical Technical Details keys to their
// legacy source field and the Comments label used for recovery.
var modelTechnicalDetails = []struct {
	key    string
	source string
	label  string
}{
	{key: "Code Availability", source: "model_code_availability", label: "Code Availability"},
	{key: "Sustainability", source: "sustainability", label: "Sustainability"},
	{key: "Training Time", source: "time_to_train", label: "Training Time"},
	{key: "Inference Time", source: "time_to_inference", label: "Inference Time"},
	{key: "Hardware Requirements", source: "hardware_requirements", label: "Hardware"},
}

func modelToCanonical(legacy map[string]any, w *warnings) map[string]any {
	name := str(legacy["model_name"])
	if name == "" {
		w.add("model_name", "missing, Name defaults to empty")
	}

	results := objects(legacy["results"])
	canonicalResults := make([]any, 0, len(results))
	for _, result := range results {
		canonicalResults = append(canonicalResults, map[string]any{
			"Result Information": strOr(result["result_description"], result["result_name"]),
			"Metric":             wrapList(result["result_metric"]),
			"Value":              str(result["result_value"]),
			"Decision Threshold": str(result["result_decision_threshold"]),
			"Subset":             str(result["result_subset_data"]),
		})
	}

	out := map[string]any{
		"Name":          name,
		"Indexing code": map[string]any{"Content": list(legacy["content_code"])},
		"Date":          map[string]any{"Created": str(legacy["date_created"])},
		"License":       map[string]any{"Text": str(legacy["license"])},
		"Funding":       str(legacy["funding"]),
		"Comments":      consolidate(legacy, modelCommentSections),
		"Input":         str(legacy["model_architecture"]),
		"Output":        str(legacy["model_architecture"]),
		"Use":           map[string]any{"Intended": list(legacy["use_case"])},
		"User":          map[string]any{"Intended": list(legacy["users"])},
		"Results":       canonicalResults,
		"Limitations":   str(legacy["caveats"]),
	}

	details := map[string]any{}
	allMissing := true
	for _, field := range modelTechnicalDetails {
		value := str(legacy[field.source])
		if value == "" {
			value = placeholderNA
		} else {
			allMissing = false
		}
		details[field.key] = value
	}
	// drop the synthesized object entirely when it carries no information
	if !allMissing {
		out["Technical Details"] = details
	}
	return out
}

func modelToLegacy(canonical map[string]any, w *warnings) map[string]any {
	comments := str(canonical["Comments"])
	details, _ := canonical["Technical Details"].(map[string]any)

	results := objects(canonical["Results"])
	legacyResults := make([]any, 0, len(results))
	for _, result := range results {
		legacyResults = append(legacyResults, map[string]any{
			"result_name":               str(result["Result Information"]),
			"result_metric":             firstOf(result["Metric"]),
			"result_value":              str(result["Value"]),
			"result_decision_threshold": str(result["Decision Threshold"]),
			"result_description":        str(result["Result Information"]),
			"result_subset_data":        str(result["Subset"]),
		})
	}

	out := map[string]any{
		"model_name":         str(canonical["Name"]),
		"content_code":       list(get(canonical, "Indexing code.Content")),
		"medical_task":       strOr(firstParagraph(comments), get(canonical, "Input")),
		"date_created":       str(get(canonical, "Date.Created")),
		"license":            str(get(canonical, "License.Text")),
		"funding":            str(canonical["Funding"]),
		"use_case":           list(get(canonical, "Use.Intended")),
		"users":              list(get(canonical, "User.Intended")),
		"results":            legacyResults,
		"caveats":            str(canonical["Limitations"]),
		"model_architecture": strOr(canonical["Input"], canonical["Output"]),
	}
	for _, field := range modelTechnicalDetails {
		value := ""
		if details != nil {
			value = str(details[field.key])
		}
		if value == "" {
			value = extractLabeled(comments, field.label, placeholderNA)
		}
		out[field.source] = value
	}
	return out
}
