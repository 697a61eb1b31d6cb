package model

import (
	"encoding/xml"
	"fmt"
)

// RepositoryState is the lifecycle state of a staging repository. The state
// machine itself is owned by the hosting service.
type RepositoryState string

const (
	RepositoryStateOpen      RepositoryState = "open"
	RepositoryStateClosing   RepositoryState = "closing"
	RepositoryStateClosed    RepositoryState = "closed"
	RepositoryStateReleasing RepositoryState = "releasing"
	RepositoryStateReleased  RepositoryState = "released"
	RepositoryStateDropped   RepositoryState = "dropped"
)

// DefaultPromoteDescription is sent with every finish/promote/drop request
const DefaultPromoteDescription = "Release last version"

// StagingProfile is a publishing profile grouping staging repositories
type StagingProfile struct {
	ID string
}

// StagingRepository represents one entry of the staging API
type StagingRepository struct {
	ProfileID    string          `json:"profileId"`
	ProfileName  string          `json:"profileName,omitempty"`
	RepositoryID string          `json:"repositoryId"`
	Type         RepositoryState `json:"type"`
	Description  string          `json:"description,omitempty"`
}

// Profile returns the profile owning the repository
func (r *StagingRepository) Profile() StagingProfile {
	return StagingProfile{ID: r.ProfileID}
}

// StagingRepositoryList is the response of the profile_repositories endpoint
type StagingRepositoryList struct {
	Data []*StagingRepository `json:"data"`
}

// Latest returns the last listed repository, or nil if the list is empty.
// The listing order of the service decides which repository is released.
func (l *StagingRepositoryList) Latest() *StagingRepository {
	if l == nil || len(l.Data) == 0 {
		return nil
	}
	return l.Data[len(l.Data)-1]
}

// PromoteRequest is the XML body of finish, promote and drop requests
type PromoteRequest struct {
	XMLName xml.Name           `xml:"promoteRequest"`
	Data    PromoteRequestData `xml:"data"`
}

// PromoteRequestData is the payload of PromoteRequest
type PromoteRequestData struct {
	StagedRepositoryID string `xml:"stagedRepositoryId"`
	Description        string `xml:"description"`
}

// NewPromoteRequest builds a request for the given repository. An empty
// description falls back to DefaultPromoteDescription.
func NewPromoteRequest(repositoryID, description string) *PromoteRequest {
	if description == "" {
		description = DefaultPromoteDescription
	}
	return &PromoteRequest{
		Data: PromoteRequestData{
			StagedRepositoryID: repositoryID,
			Description:        description,
		},
	}
}

// RemoteCallError is returned when the staging service answers with a non-2xx status
type RemoteCallError struct {
	Request    string // Logical request name, e.g. "finish"
	StatusCode int
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("request '%s' failed with status code: %d", e.Request, e.StatusCode)
}
