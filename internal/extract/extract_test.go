package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sheetscript/pkg/fieldtype"
)

const userJava = `package com.example.model;

import java.time.LocalDate;
import java.util.List;

public class User implements Serializable {
    private static final long serialVersionUID = 1L;
    private static Logger log;

    @Id
    private Integer id;

    @Column(name = "user_name")
    private String name;

    protected final Long version;
    public java.time.LocalDate birthday;
    private List<String> tags;
    private Map<String, List<Integer>> scores;
    private byte[] avatar;
    Boolean active;

    private String name;

    public String getName() {
        return name;
    }
}
`

func TestJava(t *testing.T) {
	got := Java(userJava)
	assert.Equal(t, []Field{
		{Name: "id", Type: "Integer"},
		{Name: "name", Type: "String"},
		{Name: "version", Type: "Long"},
		{Name: "birthday", Type: "java.time.LocalDate"},
		{Name: "tags", Type: "List"},
		{Name: "scores", Type: "Map"},
		{Name: "avatar", Type: "byte"},
		{Name: "active", Type: "Boolean"},
	}, got)
}

func TestJava_TypesClassify(t *testing.T) {
	types := map[string]fieldtype.Type{}
	for _, f := range Java(userJava) {
		types[f.Name] = fieldtype.Classify(f.Type)
	}
	assert.Equal(t, fieldtype.Integer, types["id"])
	assert.Equal(t, fieldtype.LocalDate, types["birthday"])
	assert.Equal(t, fieldtype.Boolean, types["active"])
}

const userMapper = `<?xml version="1.0" encoding="UTF-8"?>
<mapper namespace="com.example.UserMapper">
  <resultMap id="BaseResultMap" type="com.example.User">
    <id column="id" property="id" jdbcType="INTEGER"/>
    <result column="user_name" property="name" jdbcType="VARCHAR"/>
    <result column="created_at" property="createdAt" jdbcType="TIMESTAMP"/>
    <result column="birthday" property="birthday" jdbcType="DATE"/>
    <result column="balance" property="balance" jdbcType="DECIMAL"/>
    <result column="flag" property="flag" javaType="java.lang.Boolean" jdbcType="BIT"/>
    <result column="note" property="note"/>
    <result column="legacy_col"/>
    <result property="name" jdbcType="INTEGER"/>
  </resultMap>
</mapper>
`

func TestMyBatis(t *testing.T) {
	got := MyBatis(userMapper)
	assert.Equal(t, []Field{
		{Name: "id", Type: "Integer"},
		{Name: "name", Type: "String"},
		{Name: "createdAt", Type: "LocalDateTime"},
		{Name: "birthday", Type: "LocalDate"},
		{Name: "balance", Type: "Decimal"},
		{Name: "flag", Type: "java.lang.Boolean"},
		{Name: "note", Type: "String"},
		{Name: "legacy_col", Type: "String"},
	}, got)
}

func TestJDBCTypeTag(t *testing.T) {
	tests := map[string]string{
		"INTEGER":   "Integer",
		"bigint":    "Long",
		"NUMERIC":   "Decimal",
		"DOUBLE":    "Double",
		"REAL":      "Float",
		"BOOLEAN":   "Boolean",
		"BIT":       "Boolean",
		"DATE":      "LocalDate",
		"TIMESTAMP": "LocalDateTime",
		"VARCHAR":   "String",
		"BLOB":      "String",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, JDBCTypeTag(in))
		})
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	javaPath := filepath.Join(dir, "User.java")
	xmlPath := filepath.Join(dir, "UserMapper.xml")
	require.NoError(t, os.WriteFile(javaPath, []byte(userJava), 0o600))
	require.NoError(t, os.WriteFile(xmlPath, []byte(userMapper), 0o600))

	fields, err := File(javaPath)
	require.NoError(t, err)
	assert.Len(t, fields, 8)

	fields, err = File(xmlPath)
	require.NoError(t, err)
	assert.Equal(t, "id", fields[0].Name)

	_, err = File(filepath.Join(dir, "User.kt"))
	require.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = File(filepath.Join(dir, "Missing.java"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_UnknownKind(t *testing.T) {
	_, err := Parse("kotlin", "")
	require.ErrorIs(t, err, ErrUnsupportedFile)
}
