package parser

import (
	"strconv"

	"github.com/alecthomas/participle/v2"

	"github.com/satishbabariya/litedb/schema"
)

func convertFile(raw *File) ([]schema.Table, error) {
	tables := make([]schema.Table, 0, len(raw.Tables))
	for _, t := range raw.Tables {
		table, err := convertTable(t)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func convertTable(raw *Table) (schema.Table, error) {
	t := schema.Table{Name: raw.Name}
	var props schema.Properties
	hasProps := false

	for _, m := range raw.Members {
		if m.Column != nil {
			col, err := convertColumn(m.Column)
			if err != nil {
				return schema.Table{}, err
			}
			t.Columns = append(t.Columns, col)
			continue
		}

		hasProps = true
		if err := applyBlockAttribute(&props, m.Attribute); err != nil {
			return schema.Table{}, err
		}
	}

	if hasProps {
		t.Properties = &props
	}
	return t, nil
}

func convertColumn(raw *Column) (schema.Column, error) {
	typ, err := schema.ParseColumnType(raw.Type)
	if err != nil {
		return schema.Column{}, participle.Errorf(raw.Pos, "column %s: %s", raw.Name, err)
	}
	col := schema.Column{Name: raw.Name, Type: typ}

	for _, attr := range raw.Attributes {
		switch attr.Name {
		case "notnull":
			if len(attr.Arguments) != 0 {
				return schema.Column{}, participle.Errorf(attr.Pos, "@notnull takes no arguments")
			}
			col.NotNull = true
		case "default":
			if len(attr.Arguments) != 1 || attr.Arguments[0].Name != "" {
				return schema.Column{}, participle.Errorf(attr.Pos, "@default takes exactly one value")
			}
			v, err := convertValue(attr.Arguments[0].Value)
			if err != nil {
				return schema.Column{}, err
			}
			col.Default = v
		default:
			return schema.Column{}, participle.Errorf(attr.Pos, "unknown column attribute @%s", attr.Name)
		}
	}
	return col, nil
}

func applyBlockAttribute(props *schema.Properties, attr *Attribute) error {
	switch attr.Name {
	case "primary":
		if props.Primary != nil {
			return participle.Errorf(attr.Pos, "@@primary declared twice")
		}
		cols, err := singleColumnList(attr)
		if err != nil {
			return err
		}
		props.Primary = cols
	case "unique":
		cols, err := singleColumnList(attr)
		if err != nil {
			return err
		}
		props.Unique = append(props.Unique, cols)
	case "index":
		cols, err := singleColumnList(attr)
		if err != nil {
			return err
		}
		props.Index = append(props.Index, cols)
	case "timestamp":
		if props.Timestamp != nil {
			return participle.Errorf(attr.Pos, "@@timestamp declared twice")
		}
		ts := &schema.Timestamp{}
		for _, arg := range attr.Arguments {
			name, err := identifier(arg.Value)
			if err != nil {
				return err
			}
			switch arg.Name {
			case "create":
				ts.Create = name
			case "update":
				ts.Update = name
			default:
				return participle.Errorf(arg.Pos, "@@timestamp accepts create: and update:, got %q", arg.Name)
			}
		}
		props.Timestamp = ts
	default:
		return participle.Errorf(attr.Pos, "unknown table attribute @@%s", attr.Name)
	}
	return nil
}

// singleColumnList reads the one argument of @@primary/@@unique/@@index: a
// column name or an array of column names.
func singleColumnList(attr *Attribute) ([]string, error) {
	if len(attr.Arguments) != 1 || attr.Arguments[0].Name != "" {
		return nil, participle.Errorf(attr.Pos, "@@%s takes one column or a list of columns", attr.Name)
	}
	v := attr.Arguments[0].Value
	if v.Array == nil {
		name, err := identifier(v)
		if err != nil {
			return nil, err
		}
		return []string{name}, nil
	}
	if len(v.Array.Items) == 0 {
		return nil, participle.Errorf(v.Pos, "@@%s needs at least one column", attr.Name)
	}
	cols := make([]string, len(v.Array.Items))
	for i, item := range v.Array.Items {
		name, err := identifier(item)
		if err != nil {
			return nil, err
		}
		cols[i] = name
	}
	return cols, nil
}

func identifier(v *Value) (string, error) {
	switch {
	case v.Ident != nil:
		return *v.Ident, nil
	case v.String != nil:
		return *v.String, nil
	default:
		return "", participle.Errorf(v.Pos, "expected a column name")
	}
}

func convertValue(v *Value) (any, error) {
	switch {
	case v.String != nil:
		return *v.String, nil
	case v.Number != nil:
		if i, err := strconv.ParseInt(*v.Number, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(*v.Number, 64)
		if err != nil {
			return nil, participle.Errorf(v.Pos, "invalid number %s", *v.Number)
		}
		return f, nil
	case v.Object != nil:
		obj := make(map[string]any, len(v.Object.Entries))
		for _, e := range v.Object.Entries {
			val, err := convertValue(e.Value)
			if err != nil {
				return nil, err
			}
			obj[e.Key] = val
		}
		return obj, nil
	case v.Array != nil:
		arr := make([]any, len(v.Array.Items))
		for i, item := range v.Array.Items {
			val, err := convertValue(item)
			if err != nil {
				return nil, err
			}
			arr[i] = val
		}
		return arr, nil
	case v.Ident != nil:
		switch *v.Ident {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		}
		return nil, participle.Errorf(v.Pos, "unexpected identifier %s, expected a value", *v.Ident)
	default:
		return nil, participle.Errorf(v.Pos, "empty value")
	}
}
