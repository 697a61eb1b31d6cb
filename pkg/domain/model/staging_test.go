package model_test

import (
	"encoding/json"
	"encoding/xml"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/lbc-release/pkg/domain/model"
)

func TestStagingRepositoryList_Latest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "last of many",
			body: `{"data":[{"profileId":"p1","repositoryId":"r1"},{"profileId":"p2","repositoryId":"r2"}]}`,
			want: "r2",
		},
		{
			name: "single entry",
			body: `{"data":[{"profileId":"p1","repositoryId":"r1","type":"open"}]}`,
			want: "r1",
		},
		{
			name: "empty listing",
			body: `{"data":[]}`,
			want: "",
		},
		{
			name: "missing data",
			body: `{}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list model.StagingRepositoryList
			gt.NoError(t, json.Unmarshal([]byte(tt.body), &list))

			latest := list.Latest()
			if tt.want == "" {
				gt.Value(t, latest).Nil()
				return
			}
			gt.Equal(t, latest.RepositoryID, tt.want)
			gt.Equal(t, latest.Profile().ID, "p"+tt.want[1:])
		})
	}

	var nilList *model.StagingRepositoryList
	gt.Value(t, nilList.Latest()).Nil()
}

func TestStagingRepository_StateFromJSON(t *testing.T) {
	var repo model.StagingRepository
	gt.NoError(t, json.Unmarshal([]byte(`{"repositoryId":"r2","profileId":"p2","type":"closed","notifications":0}`), &repo))
	gt.Equal(t, repo.Type, model.RepositoryStateClosed)
}

func TestPromoteRequest_XML(t *testing.T) {
	body, err := xml.Marshal(model.NewPromoteRequest("comlunabee-1042", ""))
	gt.NoError(t, err)
	gt.Equal(t, string(body),
		`<promoteRequest><data><stagedRepositoryId>comlunabee-1042</stagedRepositoryId><description>Release last version</description></data></promoteRequest>`)

	body, err = xml.Marshal(model.NewPromoteRequest("r1", "a < b"))
	gt.NoError(t, err)
	gt.String(t, string(body)).Contains("<description>a &lt; b</description>")
}

func TestRemoteCallError(t *testing.T) {
	err := &model.RemoteCallError{Request: "finish", StatusCode: 500}
	gt.Equal(t, err.Error(), "request 'finish' failed with status code: 500")
}
