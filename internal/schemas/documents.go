package schemas

// FactCheckSchema is the fixed output contract for generated fact-checks.
// Missing required sections are a schema error, never silently defaulted.
const FactCheckSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["the_claim", "the_problem", "the_reality", "the_evidence", "perspective", "citations"],
  "properties": {
    "the_claim": {"type": "string", "minLength": 1},
    "the_problem": {"type": "string", "minLength": 1},
    "the_reality": {"type": "string", "minLength": 1},
    "the_evidence": {"type": "string"},
    "perspective": {"type": "string"},
    "citations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "url"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "url": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

// ComplaintLetterSchema is the fixed output contract for generated complaint
// letters.
const ComplaintLetterSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["subject", "body", "key_points", "citations"],
  "properties": {
    "subject": {"type": "string", "minLength": 1},
    "body": {"type": "string", "minLength": 1},
    "key_points": {
      "type": "array",
      "items": {"type": "string"}
    },
    "citations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "url"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "url": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

// OutletResearchSchema is the output contract for AI outlet research.
const OutletResearchSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["contact_email", "complaints_email", "regulator", "notes"],
  "properties": {
    "contact_email": {"type": "string"},
    "complaints_email": {"type": "string"},
    "regulator": {"type": "string"},
    "notes": {"type": "string"}
  }
}`
