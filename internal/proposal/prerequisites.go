package proposal

import "github.com/goliatone/go-marketplace/internal/domain"

// Requirement names rendered verbatim to the supplier. Order matters:
// MissingPrerequisites reports them in this fixed order.
const (
	RequirementFileUpload = "File upload"
	RequirementAboutInfo  = "About Dataset information"
	RequirementDataFormat = "Data Format information"
	RequirementFeatures   = "At least one feature/column"
)

// MissingPrerequisites evaluates the four submission gates independently and
// returns the names of those that fail. An empty slice means ready.
func MissingPrerequisites(upload *UploadInfo, about *AboutDatasetInfo, format *DataFormatInfo, features []*Feature) []string {
	missing := []string{}
	if upload == nil || upload.Status != domain.UploadUploaded {
		missing = append(missing, RequirementFileUpload)
	}
	if about == nil {
		missing = append(missing, RequirementAboutInfo)
	}
	if format == nil {
		missing = append(missing, RequirementDataFormat)
	}
	if len(features) == 0 {
		missing = append(missing, RequirementFeatures)
	}
	return missing
}
