package postgres

var BuildSetClauseForTest = buildSetClause
