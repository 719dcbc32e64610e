package compress

// dictScheme's name, as returned by its Name method. Excluding the
// dictionary scheme does not go through this name: dictScheme.Applicable
// rejects any Stats generated without distinct-value counting.
const dictSchemeName = "dict"
