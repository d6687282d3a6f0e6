package config

const (
	// MinRequirementsLength and MaxRequirementsLength bound the requirement
	// text sent to the model.
	MinRequirementsLength = 10
	MaxRequirementsLength = 10000

	// MaxContextLength bounds the optional extra context for generation.
	MaxContextLength = 5000

	// MaxGenerateCount is the largest number of cases a caller may request.
	MaxGenerateCount = 30

	// MaxBatchStories caps how many stories one batch request may carry.
	MaxBatchStories = 50

	// MaxTitleLength keeps titles readable in exports and lists.
	MaxTitleLength = 500

	// MaxBulkDeleteIDs caps one bulk delete request.
	MaxBulkDeleteIDs = 500
)
