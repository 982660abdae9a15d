package chain

var (
	RevertFromError       = revertFromError
	IsTooManyResultsError = isTooManyResultsError
)
