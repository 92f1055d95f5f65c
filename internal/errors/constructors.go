package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *DistError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func UnknownProduct(name string, available []string) *DistError {
	return New(CategoryConfig, SeverityFatal, "no such product").
		WithContext("product", name).
		WithContext("available", available)
}

func MissingSourceRoot(product, path string) *DistError {
	return New(CategoryConfig, SeverityFatal, "product source root missing").
		WithContext("product", product).
		WithContext("path", path)
}

// Build errors

func MalformedJSON(path string, cause error) *DistError {
	return Wrap(cause, CategoryParse, SeverityWarning, "malformed JSON").
		WithContext("path", path)
}

func ReadFailed(path string, cause error) *DistError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "read failed").
		WithContext("path", path)
}

func WriteFailed(path string, cause error) *DistError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "write failed").
		WithContext("path", path)
}

// Network errors

func FetchFailed(url string, cause error) *DistError {
	return Wrap(cause, CategoryNetwork, SeverityError, "fetch failed").
		WithContext("url", url)
}
