package conflictsql

// Capabilities defines which SQL features are supported by each dialect
var Capabilities = map[Dialect]map[Feature]bool{
	DialectPostgres: {
		FeatureConcat:         true,
		FeatureConcatOperator: true,
		FeatureConcatFunction: true,
		FeatureOnConflict:     true,
		FeatureOnConstraint:   true,
		FeatureDefaultValues:  true,
		FeatureOnDuplicateKey: false,
	},
	DialectMySQL: {
		FeatureConcat:         true,
		FeatureConcatOperator: false,
		FeatureConcatFunction: true,
		FeatureOnConflict:     false,
		FeatureOnConstraint:   false,
		FeatureDefaultValues:  false,
		FeatureOnDuplicateKey: true,
	},
	DialectMariaDB: {
		FeatureConcat:         true,
		FeatureConcatOperator: false,
		FeatureConcatFunction: true,
		FeatureOnConflict:     false,
		FeatureOnConstraint:   false,
		FeatureDefaultValues:  false,
		FeatureOnDuplicateKey: true,
	},
	DialectSQLite: {
		FeatureConcat:         true,
		FeatureConcatOperator: true,
		FeatureConcatFunction: false,
		FeatureOnConflict:     true,
		FeatureOnConstraint:   false,
		FeatureDefaultValues:  true,
		FeatureOnDuplicateKey: false,
	},
}

// Supports reports whether the dialect supports the feature.
// Unknown dialects support nothing.
func Supports(d Dialect, f Feature) bool {
	return Capabilities[d][f]
}
