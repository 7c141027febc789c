package shacl

// Namespace is the SHACL vocabulary namespace.
const Namespace = "http://www.w3.org/ns/shacl#"

// Classes and properties of SHACL validation reports.
const (
	ClassValidationReport = Namespace + "ValidationReport"
	ClassValidationResult = Namespace + "ValidationResult"

	PropConforms                  = Namespace + "conforms"
	PropResult                    = Namespace + "result"
	PropFocusNode                 = Namespace + "focusNode"
	PropResultPath                = Namespace + "resultPath"
	PropValue                     = Namespace + "value"
	PropResultMessage             = Namespace + "resultMessage"
	PropResultSeverity            = Namespace + "resultSeverity"
	PropSourceShape               = Namespace + "sourceShape"
	PropSourceConstraintComponent = Namespace + "sourceConstraintComponent"
)

// Severities.
const (
	SeverityViolation = Namespace + "Violation"
	SeverityWarning   = Namespace + "Warning"
	SeverityInfo      = Namespace + "Info"
)

// ContextURL identifies the JSON-LD context of validation reports. It is
// served from ContextDocument so reports convert without network access.
const ContextURL = "http://www.w3.org/ns/shacl.jsonld"

// ContextDocument is the subset of the SHACL JSON-LD context covering
// validation reports.
const ContextDocument = `{
  "@context": {
    "rdf": "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
    "sh": "http://www.w3.org/ns/shacl#",
    "xsd": "http://www.w3.org/2001/XMLSchema#",
    "ValidationReport": "sh:ValidationReport",
    "ValidationResult": "sh:ValidationResult",
    "Violation": "sh:Violation",
    "Warning": "sh:Warning",
    "Info": "sh:Info",
    "conforms": {"@id": "sh:conforms", "@type": "xsd:boolean"},
    "result": {"@id": "sh:result", "@type": "@id"},
    "focusNode": {"@id": "sh:focusNode", "@type": "@id"},
    "resultPath": {"@id": "sh:resultPath", "@type": "@id"},
    "value": {"@id": "sh:value"},
    "resultMessage": {"@id": "sh:resultMessage"},
    "resultSeverity": {"@id": "sh:resultSeverity", "@type": "@vocab"},
    "sourceShape": {"@id": "sh:sourceShape", "@type": "@id"},
    "sourceConstraintComponent": {"@id": "sh:sourceConstraintComponent", "@type": "@id"}
  }
}`
