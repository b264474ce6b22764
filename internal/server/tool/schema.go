package tool

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/mcp-go/mcp"
)

// schemaOption converts a request body schema into an MCP tool argument.
func schemaOption(schema *openapi3.SchemaRef, name string, required bool) mcp.ToolOption {
	if schema == nil || schema.Value == nil || schema.Value.Type == nil {
		opts := []mcp.PropertyOption{mcp.Description("Request body")}
		if required {
			opts = append(opts, mcp.Required())
		}
		return mcp.WithObject(name, opts...)
	}

	s := schema.Value
	baseOpts := []mcp.PropertyOption{mcp.Description(s.Description)}
	if required {
		baseOpts = append(baseOpts, mcp.Required())
	}

	switch {
	case s.Type.Includes(openapi3.TypeArray):
		if s.Items != nil {
			baseOpts = append(baseOpts, mcp.Items(s.Items))
		}
		return mcp.WithArray(name, baseOpts...)
	case s.Type.Includes(openapi3.TypeObject):
		return objectOption(s, name, baseOpts)
	case s.Type.Includes(openapi3.TypeString):
		return stringOption(s, name, baseOpts)
	case s.Type.Includes(openapi3.TypeNumber), s.Type.Includes(openapi3.TypeInteger):
		return numberOption(s, name, baseOpts)
	case s.Type.Includes(openapi3.TypeBoolean):
		return mcp.WithBoolean(name, baseOpts...)
	default:
		baseOpts = append(baseOpts, mcp.Description(fmt.Sprintf("%s (unknown type: %v)", s.Description, s.Type.Slice())))
		return mcp.WithObject(name, baseOpts...)
	}
}

func objectOption(s *openapi3.Schema, name string, opts []mcp.PropertyOption) mcp.ToolOption {
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for propName, prop := range s.Properties {
			props[propName] = propertySchema(prop)
		}
		opts = append(opts, mcp.Properties(props))
	}
	if s.MaxProps != nil {
		opts = append(opts, mcp.MaxProperties(int(*s.MaxProps)))
	}
	if s.MinProps != 0 {
		opts = append(opts, mcp.MinProperties(int(s.MinProps)))
	}
	if s.AdditionalProperties.Has != nil && *s.AdditionalProperties.Has {
		if s.AdditionalProperties.Schema != nil {
			opts = append(opts, mcp.AdditionalProperties(s.AdditionalProperties.Schema))
		} else {
			opts = append(opts, mcp.AdditionalProperties(true))
		}
	}
	withObject := mcp.WithObject(name, opts...)
	if len(s.Required) == 0 {
		return withObject
	}

	// The nested list is set after WithObject, which reads "required" as the
	// argument's own flag.
	required := s.Required
	return func(t *mcp.Tool) {
		withObject(t)
		if prop, ok := t.InputSchema.Properties[name].(map[string]any); ok {
			prop["required"] = required
		}
	}
}

// propertySchema renders a nested property as plain JSON schema.
func propertySchema(prop *openapi3.SchemaRef) map[string]any {
	out := map[string]any{}
	if prop == nil || prop.Value == nil {
		return out
	}
	v := prop.Value
	if v.Type != nil && len(v.Type.Slice()) > 0 {
		out["type"] = v.Type.Slice()[0]
	}
	if v.Description != "" {
		out["description"] = v.Description
	}

	switch {
	case v.Type.Includes(openapi3.TypeString):
		if v.MaxLength != nil {
			out["maxLength"] = *v.MaxLength
		}
		if v.MinLength != 0 {
			out["minLength"] = v.MinLength
		}
		if v.Pattern != "" {
			out["pattern"] = v.Pattern
		}
		if len(v.Enum) > 0 {
			out["enum"] = v.Enum
		}
	case v.Type.Includes(openapi3.TypeNumber), v.Type.Includes(openapi3.TypeInteger):
		if v.Max != nil {
			out["maximum"] = *v.Max
		}
		if v.Min != nil {
			out["minimum"] = *v.Min
		}
	case v.Type.Includes(openapi3.TypeArray):
		if v.Items != nil {
			out["items"] = propertySchema(v.Items)
		}
	}
	return out
}

func stringOption(s *openapi3.Schema, name string, opts []mcp.PropertyOption) mcp.ToolOption {
	var enum []string
	for _, val := range s.Enum {
		if str, ok := val.(string); ok {
			enum = append(enum, str)
		}
	}
	if len(enum) > 0 {
		opts = append(opts, mcp.Enum(enum...))
	}
	if s.MaxLength != nil {
		opts = append(opts, mcp.MaxLength(int(*s.MaxLength)))
	}
	if s.MinLength != 0 {
		opts = append(opts, mcp.MinLength(int(s.MinLength)))
	}
	if s.Pattern != "" {
		opts = append(opts, mcp.Pattern(s.Pattern))
	}
	return mcp.WithString(name, opts...)
}

func numberOption(s *openapi3.Schema, name string, opts []mcp.PropertyOption) mcp.ToolOption {
	if s.Max != nil {
		opts = append(opts, mcp.Max(*s.Max))
	}
	if s.Min != nil {
		opts = append(opts, mcp.Min(*s.Min))
	}
	if s.MultipleOf != nil {
		opts = append(opts, mcp.MultipleOf(*s.MultipleOf))
	}
	return mcp.WithNumber(name, opts...)
}
