package extract

import (
	"regexp"
	"strings"
)

var (
	resultTag = regexp.MustCompile(`<(?:result|id)\b([^>]*)>`)
	xmlAttr   = regexp.MustCompile(`([\w:]+)\s*=\s*"([^"]*)"`)
)

// DefaultJDBCType is assumed for result mappings without a jdbcType.
const DefaultJDBCType = "VARCHAR"

// MyBatis extracts fields from <result> and <id> elements of a MyBatis
// mapper. The property attribute names the field (column is the fallback).
// An explicit javaType is used as the type tag; otherwise jdbcType is
// translated with JDBCTypeTag.
func MyBatis(src string) []Field {
	var fields []Field
	for _, m := range resultTag.FindAllStringSubmatch(src, -1) {
		attrs := map[string]string{}
		for _, a := range xmlAttr.FindAllStringSubmatch(m[1], -1) {
			attrs[a[1]] = a[2]
		}

		name := attrs["property"]
		if name == "" {
			name = attrs["column"]
		}
		if name == "" {
			continue
		}

		typ := attrs["javaType"]
		if typ == "" {
			jdbc := attrs["jdbcType"]
			if jdbc == "" {
				jdbc = DefaultJDBCType
			}
			typ = JDBCTypeTag(jdbc)
		}
		fields = append(fields, Field{Name: name, Type: typ})
	}
	return dedupe(fields)
}

// JDBCTypeTag maps a JDBC type name to a classifier type tag.
func JDBCTypeTag(jdbc string) string {
	switch strings.ToUpper(strings.TrimSpace(jdbc)) {
	case "INTEGER", "INT", "SMALLINT", "TINYINT":
		return "Integer"
	case "BIGINT":
		return "Long"
	case "DECIMAL", "NUMERIC":
		return "Decimal"
	case "DOUBLE":
		return "Double"
	case "FLOAT", "REAL":
		return "Float"
	case "BIT", "BOOLEAN":
		return "Boolean"
	case "DATE":
		return "LocalDate"
	case "TIMESTAMP":
		return "LocalDateTime"
	default:
		return "String"
	}
}
