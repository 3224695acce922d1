package extract

import (
	"fmt"
	"strings"

	"github.com/roadmaplab/cardkit/pkg/card"
)

func summarizePrompt(text string) string {
	return fmt.Sprintf(`You are an expert radiologist and AI researcher specializing in analyzing published radiology AI journal articles. Your task is to perform comprehensive document analysis for ROADMAP (Radiology Ontology for AI Models, Datasets and Projects) extraction.

TASK: Perform deep analysis of this radiology AI journal article and extract ALL available information in a structured format. Leave no detail behind.

RADIOLOGY AI JOURNAL ARTICLE ANALYSIS FRAMEWORK:

1. **IDENTIFICATION & NAMING:**
   - Full title/name of the AI model, algorithm, or dataset
   - Alternative names, abbreviations, or versions mentioned
   - Publication title and journal information

2. **CLINICAL APPLICATION & PURPOSE:**
   - Specific radiology imaging modality (CT, MRI, X-ray, ultrasound, etc.)
   - Target anatomy/organ system (chest, brain, abdomen, etc.)
   - Clinical task (detection, classification, segmentation, quantification)
   - Disease/condition being addressed
   - Clinical workflow integration points

3. **TECHNICAL METHODOLOGY:**
   - AI/ML architecture (CNN, transformer, ensemble, etc.)
   - Specific model type (ResNet, U-Net, BERT, etc.)
   - Training methodology and hyperparameters
   - Data preprocessing steps
   - Augmentation techniques used

4. **DATA CHARACTERISTICS:**
   - Dataset size (number of images, patients, cases)
   - Image specifications (resolution, bit depth, file formats)
   - Acquisition parameters and protocols
   - Multi-center vs single-center data
   - Demographic information (age ranges, gender distribution)
   - Disease prevalence and case distribution

5. **PERFORMANCE METRICS (Extract ALL mentioned):**
   - Primary metrics (accuracy, AUC, sensitivity, specificity)
   - Secondary metrics (precision, recall, F1-score, etc.)
   - Confidence intervals and statistical significance
   - Comparison with radiologists or existing methods
   - Subgroup analyses and performance variations

6. **VALIDATION & TESTING:**
   - Cross-validation methodology
   - Internal vs external validation
   - Test set characteristics
   - Prospective vs retrospective validation
   - Multi-reader studies

7. **CLINICAL USERS & DEPLOYMENT:**
   - Target user types (radiologists, technologists, clinicians)
   - Clinical setting (screening, diagnosis, monitoring)
   - Integration requirements (PACS, EMR, etc.)
   - Regulatory considerations mentioned

8. **TECHNICAL REQUIREMENTS:**
   - Hardware specifications (GPU, memory, processing time)
   - Software dependencies and frameworks
   - Computing infrastructure needs
   - Real-time vs batch processing capabilities

9. **LIMITATIONS & BIASES:**
   - Explicitly stated limitations
   - Potential biases (demographic, institutional, technical)
   - Generalizability concerns
   - Edge cases or failure modes

10. **REGULATORY & ETHICAL:**
    - IRB approval and ethical considerations
    - Data privacy and anonymization
    - Regulatory pathway or FDA considerations
    - Fair AI and bias mitigation efforts

INSTRUCTIONS:
- Extract EVERY piece of quantitative data (numbers, percentages, ranges)
- Capture ALL performance metrics with exact values
- Note technical specifications with precision
- Include methodology details that enable reproducibility
- Flag any missing standard information that should be present
- Use medical terminology accurately
- Preserve exact names and abbreviations as written

DOCUMENT TEXT:
"""%s"""

COMPREHENSIVE STRUCTURED ANALYSIS:`, text)
}

func classifyPrompt(summary string) string {
	return fmt.Sprintf(`You are an expert radiologist and AI researcher specializing in classifying radiology AI journal articles. Analyze this document summary to determine if it primarily describes an AI MODEL/ALGORITHM or a DATASET/DATABASE.

RADIOLOGY AI JOURNAL CLASSIFICATION CRITERIA:

**AI MODEL/ALGORITHM** indicators:
- Primary focus on developing, training, or validating an AI system
- Reports model architecture (CNN, U-Net, ResNet, transformer, etc.)
- Describes training methodology and hyperparameters
- Reports performance metrics (AUC, sensitivity, specificity, accuracy)
- Discusses model validation against radiologists or gold standards
- Mentions inference time, computational requirements
- Describes clinical deployment or integration
- Keywords: "model", "algorithm", "network", "deep learning", "training", "validation", "performance", "accuracy", "CNN", "AI system"

**DATASET/DATABASE** indicators:
- Primary focus on creating, curating, or describing a data collection
- Details data acquisition protocols and imaging parameters
- Describes annotation methodology and inter-reader agreement
- Reports dataset statistics (patient demographics, case distributions)
- Discusses data quality control and standardization processes
- Mentions multi-center data collection or harmonization
- Describes ground truth establishment and expert consensus
- Keywords: "dataset", "database", "collection", "cohort", "annotated", "curated", "ground truth", "multi-center", "imaging protocol"

**HYBRID CASES** (choose primary focus):
- If introduces a new dataset AND trains a model on it → MODEL (if performance evaluation is emphasized)
- If creates a dataset AND provides baseline results → DATASET (if data creation is emphasized)
- If proposes a model AND releases the training data → MODEL (if model is the main contribution)

ANALYSIS FRAMEWORK:
1. Identify the PRIMARY contribution and main research objective
2. Determine what the authors consider their main novelty/contribution
3. Assess whether the paper's value lies in the algorithm or the data
4. Consider the journal section (if mentioned) and paper structure

DOCUMENT SUMMARY:
"""%s"""

INSTRUCTIONS:
- Provide definitive classification based on PRIMARY contribution
- Explain your reasoning with specific evidence from the text
- Note any secondary contributions (e.g., "primarily MODEL with released dataset")

RESPOND in this exact format:
"CLASSIFICATION: [MODEL/DATASET]"

Detailed reasoning with specific textual evidence:

CLASSIFICATION:`, summary)
}

func extractPrompt(kind card.Kind, fields []string, summary, excerpt string) string {
	guide := modelExtractionGuide
	template := modelJSONTemplate
	docType := "MODEL"
	if kind == card.KindDataset {
		guide = datasetExtractionGuide
		template = datasetJSONTemplate
		docType = "DATASET"
	}

	return fmt.Sprintf(`You are a ROADMAP (Radiology Ontology for AI Models, Datasets and Projects) expert specializing in extracting comprehensive information from published radiology AI journal articles. Your mission is to capture EVERY piece of relevant information for maximum completeness and accuracy.

DOCUMENT TYPE: %s
AVAILABLE ROADMAP SCHEMA FIELDS: %s

EXTRACTION METHODOLOGY FOR RADIOLOGY AI JOURNAL ARTICLES:

%s

CRITICAL EXTRACTION PRINCIPLES:
1. **PRECISION**: Extract exact values, percentages, and measurements as published
2. **COMPLETENESS**: Capture every available detail, no matter how minor
3. **ACCURACY**: Use precise medical and technical terminology
4. **CONTEXT**: Include confidence intervals, p-values, and statistical context
5. **STANDARDIZATION**: Map journal terminology to ROADMAP schema fields
6. **VALIDATION**: Cross-reference summary with original text for accuracy
7. **INDIVIDUAL METRICS**: CREATE SEPARATE RESULT ENTRIES for each performance metric using EXACT ROADMAP schema names
8. **ROADMAP METRIC NAMES**: Use exact names: "Area under the receiver operating characteristic curve", "Sensitivity", "Specificity", "Accuracy", "Precision", "Recall"
9. **SEPARATE TEST SETS**: If multiple test sets, create separate entries for each
10. **SUBGROUP ANALYSES**: If subgroup results reported, create separate entries for each subgroup
11. **NO DUPLICATES**: Never create duplicate entries - each unique metric/test set combination should appear only once

DOCUMENT ANALYSIS SUMMARY:
"""%s"""

ORIGINAL JOURNAL ARTICLE TEXT (for precise detail extraction):
"""%s"""

EXTRACTION INSTRUCTIONS:
- Mine ALL numerical data (performance metrics, dataset sizes, technical specs)
- Extract complete methodology details for reproducibility
- Capture regulatory, ethical, and clinical deployment information
- Include ALL limitations, biases, and generalizability concerns
- Map journal-specific terminology to ROADMAP standard fields
- Preserve exact naming conventions and abbreviations from the paper
- Include version information and temporal details where available
- **AVOID DUPLICATES**: Before creating new entries, check if similar information already exists and consolidate instead of duplicating
- **RESULTS ARRAY**: Create individual entries for each metric - if paper reports "AUC=0.95, Sensitivity=92%%, Specificity=88%%" create 3 separate Result objects
- **MULTIPLE TEST SETS**: If tested on internal + external sets, create separate entries for each
- **SUBGROUP RESULTS**: If results broken down by demographics/subgroups, create separate entries
- **METHOD ARRAY**: Create separate entries for Architecture, Training, Preprocessing, Validation - each as individual Method objects
- **DEDUPLICATION**: Never create duplicate entries - consolidate similar information into single entries with comprehensive details

CRITICAL DEDUPLICATION REQUIREMENT:
- Review all array entries (Results, Method) before finalizing
- Consolidate duplicate or highly similar entries into single comprehensive entries
- Each unique metric/test set combination should appear only once
- Each unique methodological aspect should appear only once

Return ONLY valid JSON in this exact ROADMAP format:
%s

COMPREHENSIVE JSON OUTPUT:`, docType, strings.Join(fields, ", "), guide, summary, excerpt, template)
}

const modelExtractionGuide = `Extract COMPREHENSIVE MODEL information from this radiology AI journal article:

**CORE IDENTIFICATION:**
- Name: Full model name, abbreviations, and any version identifiers
- Comments: Complete technical description including architecture details, novelty, and clinical significance
- Version: Model version, iteration, or development stage if mentioned

**CLINICAL APPLICATION:**
- Use → Intended: ALL mentioned clinical applications, imaging tasks, and use cases
- Use → Clinical Setting: Screening, diagnosis, monitoring, treatment planning
- Target Anatomy: Specific organs, body regions, or anatomical structures
- Imaging Modality: CT, MRI, X-ray, ultrasound, mammography, etc.
- Disease Focus: Specific conditions, pathologies, or abnormalities targeted

**USER SPECIFICATIONS:**
- User → Intended: Complete list of intended users (radiologists, residents, technologists, clinicians, etc.)
- User → Experience Level: Required expertise level or training
- Clinical Workflow: Integration points in radiological workflow

**TECHNICAL SPECIFICATIONS:**
- Input: Detailed input requirements (image formats, resolution, preprocessing)
- Output: Complete output description (classifications, scores, visualizations)
- Method: CREATE SEPARATE ENTRIES for different methodological aspects:
  * One entry for Architecture (neural network design, layers, components)
  * One entry for Training (methodology, loss function, optimization)
  * One entry for Data Preprocessing (augmentation, normalization, preprocessing)
  * One entry for Validation (cross-validation, test methodology)
  * Additional entries for other methodological components as needed
  * CONSOLIDATE DUPLICATES: If multiple mentions of same methodological aspect, merge into single comprehensive entry

**PERFORMANCE ANALYSIS - CRITICAL: INDIVIDUAL METRIC ENTRIES:**
- Results: CREATE ONE SEPARATE ENTRY FOR EACH INDIVIDUAL METRIC
  * MANDATORY: One dedicated entry for each metric using EXACT ROADMAP schema names:
    - "Area under the receiver operating characteristic curve" (for AUC)
    - "Sensitivity" (for sensitivity/recall)
    - "Specificity" (for specificity)
    - "Accuracy" (for accuracy)
    - "Precision" (for precision)
    - "Recall" (for recall/sensitivity)
  * MULTIPLE TEST SETS: Create separate entries for each test set (e.g., "AUC - Internal Test", "AUC - External Test")
  * SUBGROUP ANALYSES: Create separate entries for each subgroup (e.g., "Sensitivity - Men", "Sensitivity - Women")
  * COMPARISON STUDIES: Create separate entries for comparisons (e.g., "Specificity - Model", "Specificity - Radiologists")
  * READER STUDIES: Create separate entries for each reader or reader group
  * EACH ENTRY MUST INCLUDE: Exact value, confidence interval, p-value, test set description
  * EXAMPLE: If paper reports AUC=0.95, Sensitivity=92%, Specificity=88% → CREATE 3 SEPARATE ENTRIES
  * USE EXACT METRIC NAMES from ROADMAP schema: "Area under the receiver operating characteristic curve", "Sensitivity", "Specificity"
  * NO DUPLICATES: Each unique metric+test set combination should appear only once - consolidate multiple mentions into single comprehensive entry
- Validation: Cross-validation methodology, test set characteristics
- Clinical Validation: Prospective studies, reader studies, clinical trials

**DEPLOYMENT & REQUIREMENTS:**
- Required Processor: Hardware specifications, GPU requirements, processing time
- Software: Dependencies, frameworks, compatibility requirements
- Integration: PACS integration, EMR connectivity, workflow requirements

**LIMITATIONS & CONSIDERATIONS:**
- Limitations: ALL stated limitations, failure modes, edge cases
- Bias: Demographic, institutional, or technical biases identified
- Generalizability: Population, institutional, or technical generalizability concerns
- Regulatory: FDA status, CE marking, or regulatory pathway mentioned
- Ethical: Fairness, bias mitigation, ethical considerations`

const datasetExtractionGuide = `Extract COMPREHENSIVE DATASET information from this radiology AI journal article:

**CORE IDENTIFICATION:**
- Name: Complete dataset/database name, abbreviations, and versions
- Comments: Comprehensive description including purpose, scope, and clinical significance
- Version: Dataset version, updates, or release information

**DATA COMPOSITION:**
- Composition → Number of instances: Exact counts (images, patients, studies, cases)
- Composition → Data type: All data types (images, annotations, metadata, clinical data)
- Demographics: Age distributions, gender ratios, population characteristics
- Disease Distribution: Case types, pathology prevalence, severity distributions
- Temporal: Collection period, longitudinal follow-up if applicable

**IMAGING SPECIFICATIONS:**
- Imaging → File format: All formats (DICOM, JPEG, PNG, NIfTI, etc.)
- Imaging → Resolution: Spatial resolution, bit depth, matrix sizes
- Imaging → Modality: Specific imaging techniques and parameters
- Acquisition: Scanner types, imaging protocols, technical parameters
- Quality: Image quality criteria, exclusion criteria

**DATA COLLECTION:**
- Collection process: Detailed methodology for data acquisition
- Sources: Contributing institutions, multi-center vs single-center
- Time period: Data collection timeline and duration
- Inclusion/Exclusion: Patient selection criteria and exclusion rules
- IRB/Ethics: Ethical approval and consent processes

**ANNOTATION & LABELING:**
- Labeling: Complete annotation methodology and guidelines
- Ground Truth: Gold standard establishment and expert consensus
- Inter-reader: Agreement metrics, kappa values, consensus processes
- Quality Control: Annotation validation and quality assurance
- Annotation Tools: Software and platforms used for labeling

**ACCESS & USAGE:**
- License → Text: Complete licensing terms, usage rights, and restrictions
- Availability: Public/private access, download procedures
- Citation: Required citation and acknowledgment information
- Updates: Maintenance schedule and update policies

**TECHNICAL DETAILS:**
- Storage: Data storage format, organization, and structure
- Privacy: De-identification procedures and privacy protections
- Validation: Dataset validation and integrity checks
- Benchmarking: Baseline results, benchmark tasks, evaluation metrics

**CLINICAL RELEVANCE:**
- Clinical Application: Intended research applications and clinical uses
- Validation Studies: Studies using this dataset for validation
- Impact: Clinical impact and research contributions enabled`

const modelJSONTemplate = `{
  "Model": {
    "Name": "complete model name with versions",
    "Comments": "comprehensive technical description including architecture, novelty, and clinical significance",
    "Version": "version or development stage",
    "Use": {
      "Intended": ["clinical application 1", "imaging task 2", "diagnostic use case 3"],
      "Clinical Setting": ["screening", "diagnosis", "monitoring"],
      "Target Anatomy": ["organ/region 1", "anatomical structure 2"],
      "Imaging Modality": ["CT", "MRI", "X-ray", "ultrasound"],
      "Disease Focus": ["condition 1", "pathology 2"]
    },
    "User": {
      "Intended": ["radiologists", "residents", "technologists", "clinicians"],
      "Experience Level": "required expertise level",
      "Clinical Workflow": "workflow integration points"
    },
    "Input": "detailed input requirements with formats and preprocessing",
    "Output": "comprehensive output description with formats and interpretations",
    "Method": [
      {
        "Type": "Architecture",
        "Description": "Neural network architecture (e.g., U-Net, ResNet-50, ensemble)",
        "Details": "Specific architectural components and modifications"
      },
      {
        "Type": "Training",
        "Description": "Training methodology and approach",
        "Details": "Loss function, optimizer, learning rate, epochs, etc."
      },
      {
        "Type": "Data Preprocessing",
        "Description": "Image preprocessing and augmentation",
        "Details": "Normalization, augmentation techniques, preprocessing steps"
      }
    ],
    "Results": [
      {
        "Metric": ["Area under the receiver operating characteristic curve"],
        "Value": "exact performance values with confidence intervals",
        "Result Information": "detailed performance analysis with statistical significance",
        "Comparison": "comparison with radiologists or existing methods",
        "Subgroup Analysis": "performance variations across subgroups"
      }
    ],
    "Validation": {
      "Method": "cross-validation methodology",
      "Test Set": "test set characteristics",
      "Clinical Studies": "prospective studies or reader studies"
    },
    "Required processor": "hardware specifications and processing requirements",
    "Software": "dependencies, frameworks, and compatibility",
    "Integration": "PACS, EMR, and workflow integration requirements",
    "Limitations": "comprehensive limitations including failure modes and edge cases",
    "Bias": "demographic, institutional, or technical biases identified",
    "Generalizability": "population and institutional generalizability concerns",
    "Regulatory": "FDA status, CE marking, or regulatory pathway",
    "Ethical": "fairness, bias mitigation, and ethical considerations"
  }
}`

const datasetJSONTemplate = `{
  "Dataset": {
    "Name": "complete dataset name with versions",
    "Comments": "comprehensive description including purpose, scope, and clinical significance",
    "Version": "dataset version or release information",
    "Composition": {
      "Number of instances": "exact counts: images, patients, studies, cases",
      "Data type": ["Image", "Annotation", "Metadata", "Clinical data"],
      "Demographics": "age distributions, gender ratios, population characteristics",
      "Disease Distribution": "case types, pathology prevalence, severity distributions",
      "Temporal": "collection period and longitudinal follow-up"
    },
    "Imaging": {
      "File format": ["DICOM", "JPEG", "PNG", "NIfTI"],
      "Resolution": "spatial resolution, bit depth, matrix sizes",
      "Modality": "specific imaging techniques and parameters",
      "Acquisition": "scanner types, imaging protocols, technical parameters",
      "Quality": "image quality criteria and exclusion criteria"
    },
    "Collection process": {
      "Methodology": "detailed data acquisition methodology",
      "Sources": "contributing institutions, multi-center vs single-center",
      "Time period": "data collection timeline and duration",
      "Inclusion Exclusion": "patient selection and exclusion criteria",
      "IRB Ethics": "ethical approval and consent processes"
    },
    "Labeling": {
      "Methodology": "complete annotation methodology and guidelines",
      "Ground Truth": "gold standard establishment and expert consensus",
      "Inter-reader": "agreement metrics, kappa values, consensus processes",
      "Quality Control": "annotation validation and quality assurance",
      "Annotation Tools": "software and platforms used for labeling"
    },
    "License": {
      "Text": "complete licensing terms, usage rights, and restrictions",
      "Availability": "public/private access and download procedures",
      "Citation": "required citation and acknowledgment information",
      "Updates": "maintenance schedule and update policies"
    },
    "Technical": {
      "Storage": "data storage format, organization, and structure",
      "Privacy": "de-identification procedures and privacy protections",
      "Validation": "dataset validation and integrity checks",
      "Benchmarking": "baseline results, benchmark tasks, evaluation metrics"
    },
    "Clinical": {
      "Application": "intended research applications and clinical uses",
      "Validation Studies": "studies using this dataset for validation",
      "Impact": "clinical impact and research contributions enabled"
    }
  }
}`
