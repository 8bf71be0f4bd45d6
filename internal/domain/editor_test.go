package domain

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/emailbuilder/pkg/blocktree"
)

func TestEditorRequests_Validate(t *testing.T) {
	text, err := blocktree.DefaultBlock(blocktree.TypeText)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		req     interface{ Validate() error }
		wantErr string
	}{
		{name: "create without template", req: &CreateSessionRequest{}},
		{name: "create with bad template", req: &CreateSessionRequest{TemplateID: "x"}, wantErr: "template_id"},
		{name: "session missing", req: &SessionRequest{}, wantErr: "session_id is required"},
		{name: "session not uuid", req: &SessionRequest{SessionID: "abc"}, wantErr: "session_id must be a valid UUID"},

		{name: "append by type", req: &AppendBlockRequest{SessionID: testUUID, ParentID: "root", Type: blocktree.TypeText}},
		{name: "append by block", req: &AppendBlockRequest{SessionID: testUUID, ParentID: "root", Block: &text}},
		{name: "append unknown type", req: &AppendBlockRequest{SessionID: testUUID, ParentID: "root", Type: "Carousel"}, wantErr: "unknown block type"},
		{name: "append without type", req: &AppendBlockRequest{SessionID: testUUID, ParentID: "root"}, wantErr: "type or block"},
		{name: "append without parent", req: &AppendBlockRequest{SessionID: testUUID, Type: blocktree.TypeText}, wantErr: "parent_id"},
		{name: "append negative column", req: &AppendBlockRequest{SessionID: testUUID, ParentID: "c", Column: -1, Type: blocktree.TypeText}, wantErr: "column"},

		{name: "component", req: &InsertComponentRequest{SessionID: testUUID, ParentID: "root", TemplateID: testUUID}},
		{name: "component bad template", req: &InsertComponentRequest{SessionID: testUUID, ParentID: "root"}, wantErr: "template_id"},

		{name: "move", req: &MoveBlockRequest{SessionID: testUUID, BlockID: "b", Direction: blocktree.DirectionUp}},
		{name: "move sideways", req: &MoveBlockRequest{SessionID: testUUID, BlockID: "b", Direction: "left"}, wantErr: "direction"},

		{name: "select clears", req: &BlockRequest{SessionID: testUUID}},
		{name: "update", req: &UpdateBlockRequest{SessionID: testUUID, BlockID: "b", Block: text}},
		{name: "update without block", req: &UpdateBlockRequest{SessionID: testUUID, BlockID: "b"}, wantErr: "block is required"},

		{name: "import", req: &ImportDocumentRequest{SessionID: testUUID, Document: json.RawMessage(`{}`)}},
		{name: "import empty", req: &ImportDocumentRequest{SessionID: testUUID}, wantErr: "document is required"},

		{name: "load", req: &LoadTemplateRequest{SessionID: testUUID, TemplateID: testUUID}},
		{name: "load bad template", req: &LoadTemplateRequest{SessionID: testUUID, TemplateID: "1"}, wantErr: "template_id"},

		{name: "save", req: &SaveTemplateRequest{SessionID: testUUID}},
		{name: "save component", req: &SaveComponentRequest{SessionID: testUUID, BlockID: "b", Name: "Footer"}},
		{name: "save component no name", req: &SaveComponentRequest{SessionID: testUUID, BlockID: "b"}, wantErr: "name is required"},
		{name: "view", req: &SetViewRequest{SessionID: testUUID}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestSessionRequest_FromURLParams(t *testing.T) {
	var req SessionRequest
	require.NoError(t, req.FromURLParams(url.Values{"session_id": {testUUID}}))
	assert.Equal(t, testUUID, req.SessionID)
}

func TestInsertBlockRequest_FlatJSON(t *testing.T) {
	var req InsertBlockRequest
	raw := `{"session_id":"` + testUUID + `","parent_id":"root","column":1,"type":"Text","index":2}`
	require.NoError(t, json.Unmarshal([]byte(raw), &req))

	assert.Equal(t, blocktree.Slot{ParentID: "root", Column: 1}, req.Slot())
	assert.Equal(t, 2, req.Index)
	assert.Equal(t, blocktree.TypeText, req.Type)
	assert.NoError(t, req.Validate())
}
