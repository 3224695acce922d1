package convert

import "strings"

var datasetCollectionSections = []section{
	{source: "collection_process"},
	{source: "composition", label: "Composition"},
	{source: "partioning_scheme", label: "Partitioning"},
}

var datasetLabelingSections = []section{
	{source: "labeling"},
	{source: "missing_information", label: "Missing Information"},
	{source: "noise", label: "Noise Issues"},
	{source: "relationships_between_instances", label: "Instance Relationships"},
}

var datasetConfidentialitySections = []section{
	{source: "confidentiality"},
	{source: "re_identification", label: "Re-identification"},
}

var datasetCommentSections = []section{
	{source: "motivation", label: "Motivation"},
	{source: "purpose", label: "Purpose"},
	{source: "external_data", label: "External Data"},
	{source: "dataset_availability", label: "Availability"},
}

func datasetToCanonical(legacy map[string]any, w *warnings) map[string]any {
	name := str(legacy["dataset_name"])
	if name == "" {
		w.add("dataset_name", "missing, Name defaults to empty")
	}

	partitions := objects(legacy["partitions"])
	subsets := make([]any, 0, len(partitions))
	for _, partition := range partitions {
		subsets = append(subsets, map[string]any{
			"Subset name":         str(partition["subset_name"]),
			"Subset description":  str(partition["subset_description"]),
			"Number of instances": strOr(partition["number_instances"], partition["patient_count"]),
			"Site count":          str(partition["site_count"]),
			"Patient count":       str(partition["patient_count"]),
			"Age":                 strOr(partition["age"], "Not specified"),
			"Sex":                 strOr(partition["sex"], "Not specified"),
			"Demographic":         str(partition["demographic"]),
			"Criterion":           str(partition["criterion"]),
		})
	}

	fileFormat := list(legacy["file_format"])
	if len(fileFormat) == 0 {
		fileFormat = []any{"DICOM"}
	}

	out := map[string]any{
		"Name":          name,
		"Indexing code": map[string]any{"Content": inferContentCodes(legacy)},
		"Composition": map[string]any{
			"Number of instances":     intOrZero(legacy["number_of_instances"], "number_of_instances", w),
			"Data type":               []any{"Image"},
			"Sample Size Calculation": str(legacy["representativeness"]),
			"Representativeness": map[string]any{
				"Sample type":  str(legacy["representativeness"]),
				"Population":   str(legacy["subpopulations"]),
				"Verification": str(legacy["verification"]),
			},
		},
		"Imaging": map[string]any{
			"File format":    fileFormat,
			"Resolution":     str(legacy["resolution"]),
			"Burned-in PHI":  strOr(legacy["burned_in_phi"], "Unknown"),
			"Pre-processing": joinedImagingDetails(legacy["imaging_details"]),
		},
		"Collection process": consolidate(legacy, datasetCollectionSections),
		"Labeling":           consolidate(legacy, datasetLabelingSections),
		"Ethical review":     str(legacy["confidentiality"]),
		"Confidentiality":    consolidate(legacy, datasetConfidentialitySections),
		"Comments":           consolidate(legacy, datasetCommentSections),
		"License":            map[string]any{"Text": strOr(legacy["dataset_license"], "Not specified")},
	}
	// omit when empty, mirroring the export shape
	if len(subsets) > 0 {
		out["Subsets"] = subsets
	}
	return out
}

func datasetToLegacy(canonical map[string]any, w *warnings) map[string]any {
	collection := str(canonical["Collection process"])
	labeling := str(canonical["Labeling"])
	comments := str(canonical["Comments"])
	confidentiality := str(canonical["Confidentiality"])

	subsets := objects(canonical["Subsets"])
	partitions := make([]any, 0, len(subsets))
	for _, subset := range subsets {
		partitions = append(partitions, map[string]any{
			"subset_name":        str(subset["Subset name"]),
			"subset_description": str(subset["Subset description"]),
			"site_count":         strOr(subset["Site count"], "1"),
			"patient_count":      strOr(subset["Patient count"], subset["Number of instances"]),
			"number_instances":   strOr(subset["Number of instances"], subset["Patient count"]),
			"age":                strOr(subset["Age"], "Not specified"),
			"sex":                strOr(subset["Sex"], "Not specified"),
			"demographic":        str(subset["Demographic"]),
			"criterion":          str(subset["Criterion"]),
		})
	}

	imagingDetails := []any{"Image data"}
	if pre := str(get(canonical, "Imaging.Pre-processing")); pre != "" {
		imagingDetails = splitImagingDetails(pre)
	}

	fileFormat := list(get(canonical, "Imaging.File format"))
	if len(fileFormat) == 0 {
		fileFormat = []any{"DICOM"}
	}

	return map[string]any{
		"dataset_name":    str(canonical["Name"]),
		"imaging_details": imagingDetails,
		"file_format":     fileFormat,
		"resolution":      str(get(canonical, "Imaging.Resolution")),
		"burned_in_phi":   strOr(get(canonical, "Imaging.Burned-in PHI"), "Unknown"),

		"labeling":                        firstParagraph(labeling),
		"missing_information":             extractLabeled(labeling, "Missing Information", ""),
		"relationships_between_instances": extractLabeled(labeling, "Instance Relationships", ""),
		"noise":                           extractLabeled(labeling, "Noise Issues", ""),

		"external_data":        extractLabeled(comments, "External Data", ""),
		"motivation":           extractLabeled(comments, "Motivation", ""),
		"purpose":              extractLabeled(comments, "Purpose", ""),
		"dataset_availability": extractLabeled(comments, "Availability", ""),

		"confidentiality":   firstParagraph(confidentiality),
		"re_identification": extractLabeled(confidentiality, "Re-identification", ""),

		"collection_process": firstParagraph(collection),
		"composition":        extractLabeled(collection, "Composition", ""),
		"partioning_scheme":  extractLabeled(collection, "Partitioning", ""),

		"subpopulations":      str(get(canonical, "Composition.Representativeness.Population")),
		"number_of_instances": intOrZero(get(canonical, "Composition.Number of instances"), "Composition.Number of instances", w),
		"representativeness": strOr(
			get(canonical, "Composition.Representativeness.Sample type"),
			get(canonical, "Composition.Sample Size Calculation"),
		),
		"verification": str(get(canonical, "Composition.Representativeness.Verification")),

		"dataset_license": strOr(get(canonical, "License.Text"), "Not specified"),
		"partitions":      partitions,
	}
}

// inferContentCodes derives indexing content codes from the legacy imaging
// details, defaulting to the catch-all code when nothing matches.
func inferContentCodes(legacy map[string]any) []any {
	details := joinedImagingDetails(legacy["imaging_details"])
	codes := make([]any, 0, 2)
	if strings.Contains(details, "CT") || strings.Contains(details, "computed tomography") {
		codes = append(codes, "CT - Computed Tomography")
	}
	if strings.Contains(details, "MRI") || strings.Contains(details, "magnetic resonance") {
		codes = append(codes, "MR - Magnetic Resonance")
	}
	if len(codes) == 0 {
		return []any{"OT - Other"}
	}
	return codes
}

func joinedImagingDetails(value any) string {
	if entries, ok := value.([]any); ok {
		parts := make([]string, 0, len(entries))
		for _, entry := range entries {
			parts = append(parts, str(entry))
		}
		return strings.Join(parts, "; ")
	}
	return str(value)
}

func splitImagingDetails(joined string) []any {
	parts := strings.Split(joined, "; ")
	out := make([]any, len(parts))
	for i, part := range parts {
		out[i] = part
	}
	return out
}
