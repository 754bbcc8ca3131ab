package script

import (
	"github.com/leapstack-labs/sheetscript/pkg/dialect"
	"github.com/leapstack-labs/sheetscript/pkg/dialects/mongodb"
	"github.com/leapstack-labs/sheetscript/pkg/dialects/mysql"
)

// The wrappers below treat the first row as a header and return only the
// script text.

// RelationalUpdate renders UPDATE statements for table.
func RelationalUpdate(rows []Row, m Mappings, conditionField string, updateFields []string, table string) string {
	return run(mysql.MySQL, Request{Kind: KindUpdate, ConditionField: conditionField, UpdateFields: updateFields}, rows, m, table)
}

// RelationalInsert renders INSERT statements for table.
func RelationalInsert(rows []Row, m Mappings, table string) string {
	return run(mysql.MySQL, Request{Kind: KindInsert}, rows, m, table)
}

// RelationalDelete renders DELETE statements for table.
func RelationalDelete(rows []Row, m Mappings, conditionField, table string) string {
	return run(mysql.MySQL, Request{Kind: KindDelete, ConditionField: conditionField}, rows, m, table)
}

// DocumentUpdate renders updateOne calls for collection.
func DocumentUpdate(rows []Row, m Mappings, conditionField string, updateFields []string, collection string) string {
	return run(mongodb.MongoDB, Request{Kind: KindUpdate, ConditionField: conditionField, UpdateFields: updateFields}, rows, m, collection)
}

// DocumentInsert renders insertOne calls for collection.
func DocumentInsert(rows []Row, m Mappings, collection string) string {
	return run(mongodb.MongoDB, Request{Kind: KindInsert}, rows, m, collection)
}

// DocumentDelete renders deleteOne calls for collection.
func DocumentDelete(rows []Row, m Mappings, conditionField, collection string) string {
	return run(mongodb.MongoDB, Request{Kind: KindDelete, ConditionField: conditionField}, rows, m, collection)
}

func run(d *dialect.Dialect, req Request, rows []Row, m Mappings, target string) string {
	req.Rows = rows
	req.Mappings = m
	req.Target = target
	req.HeaderRows = 1
	res, err := Generate(d, req)
	if err != nil {
		// unreachable: dialect and kind are fixed
		return ""
	}
	return res.Script
}
