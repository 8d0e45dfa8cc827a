package catalog

// recipeCatalogSchema is the JSON Schema every catalog document must satisfy
const recipeCatalogSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["recipes"],
  "additionalProperties": false,
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "recipes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "result"],
        "additionalProperties": false,
        "properties": {
          "id": {"type": "string", "pattern": "^[a-z0-9_]+$"},
          "name": {"type": "string"},
          "description": {"type": "string"},
          "duration": {"type": "string"},
          "station": {"type": "string"},
          "ingredients": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["kind", "amount"],
              "additionalProperties": false,
              "properties": {
                "kind": {"type": "string", "minLength": 1},
                "amount": {"type": "integer", "minimum": 1}
              }
            }
          },
          "result": {
            "type": "object",
            "required": ["item_id", "kind"],
            "additionalProperties": false,
            "properties": {
              "item_id": {"type": "string", "minLength": 1},
              "kind": {"enum": ["TOOL", "WEAPON", "MATERIAL", "FOOD", "STRUCTURE"]},
              "amount": {"type": "integer", "minimum": 1}
            }
          }
        }
      }
    }
  }
}`
