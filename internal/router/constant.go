package router

// Log prefixes
const (
	LogPrefixRoute = "internal.router.Route"
)

// keySeparator joins kind and action in the composite event key.
const keySeparator = "."
