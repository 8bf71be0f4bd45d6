package http_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Notifuse/emailbuilder/internal/domain"
	"github.com/Notifuse/emailbuilder/internal/domain/mocks"
	apphttp "github.com/Notifuse/emailbuilder/internal/http"
	"github.com/Notifuse/emailbuilder/pkg/blocktree"
	"github.com/Notifuse/emailbuilder/pkg/editor"
	"github.com/Notifuse/emailbuilder/pkg/logger"
)

func setupEditorHandlerTest(t *testing.T) (*mocks.MockEditorService, *http.ServeMux, string) {
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockEditorService(ctrl)

	handler := apphttp.NewEditorHandler(mockService, testJWTSecret, logger.NewMockLogger(t))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return mockService, mux, createTestToken(t)
}

func testEditorSession() *domain.EditorSession {
	return &domain.EditorSession{
		ID:     testSessionID,
		RootID: blocktree.RootFallbackID,
		State: editor.State{
			Document:           blocktree.EmptyDocument(),
			SelectedMainTab:    editor.MainTabEditor,
			SelectedSidebarTab: editor.SidebarTabStyles,
			SelectedScreenSize: editor.ScreenSizeDesktop,
		},
	}
}

func TestEditorHandler_CreateAndGet(t *testing.T) {
	mockService, mux, token := setupEditorHandlerTest(t)

	mockService.EXPECT().CreateSession(gomock.Any(), domain.CreateSessionRequest{}).Return(testEditorSession(), nil)
	w := sendRequest(t, mux, http.MethodPost, "/api/editor.create", token, map[string]string{})
	assert.Equal(t, http.StatusCreated, w.Code)
	session := decodeBody(t, w)["session"].(map[string]interface{})
	assert.Equal(t, testSessionID, session["id"])
	assert.Equal(t, blocktree.RootFallbackID, session["root_id"])

	mockService.EXPECT().GetSession(gomock.Any(), testSessionID).Return(testEditorSession(), nil)
	w = sendRequest(t, mux, http.MethodGet, "/api/editor.get?session_id="+testSessionID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	mockService.EXPECT().GetSession(gomock.Any(), testSessionID).Return(nil, domain.ErrSessionNotFound)
	w = sendRequest(t, mux, http.MethodGet, "/api/editor.get?session_id="+testSessionID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = sendRequest(t, mux, http.MethodGet, "/api/editor.get?session_id=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendRequest(t, mux, http.MethodPost, "/api/editor.create", token, map[string]string{"template_id": "abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditorHandler_Close(t *testing.T) {
	mockService, mux, token := setupEditorHandlerTest(t)
	mockService.EXPECT().CloseSession(gomock.Any(), testSessionID).Return(nil)

	w := sendRequest(t, mux, http.MethodPost, "/api/editor.close", token, domain.SessionRequest{SessionID: testSessionID})
	assert.Equal(t, http.StatusOK, w.Code)

	w = sendRequest(t, mux, http.MethodGet, "/api/editor.close", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestEditorHandler_Catalog(t *testing.T) {
	mockService, mux, token := setupEditorHandlerTest(t)
	text, err := blocktree.DefaultBlock(blocktree.TypeText)
	require.NoError(t, err)
	mockService.EXPECT().Catalog().Return([]domain.CatalogEntry{
		{Type: blocktree.TypeText, Name: "Text", Category: "Content", Block: text},
	})

	w := sendRequest(t, mux, http.MethodGet, "/api/editor.catalog", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	blocks := decodeBody(t, w)["blocks"].([]interface{})
	require.Len(t, blocks, 1)
	assert.Equal(t, "Text", blocks[0].(map[string]interface{})["name"])
}

func TestEditorHandler_AppendBlock(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockService, mux, token := setupEditorHandlerTest(t)
		req := domain.AppendBlockRequest{SessionID: testSessionID, ParentID: blocktree.RootFallbackID, Type: blocktree.TypeText}
		mockService.EXPECT().AppendBlock(gomock.Any(), req).Return(&domain.BlockResponse{Session: testEditorSession(), BlockID: "block-1"}, nil)

		w := sendRequest(t, mux, http.MethodPost, "/api/editor.appendBlock", token, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "block-1", decodeBody(t, w)["block_id"])
	})

	t.Run("unknown type", func(t *testing.T) {
		_, mux, token := setupEditorHandlerTest(t)

		w := sendRequest(t, mux, http.MethodPost, "/api/editor.appendBlock", token, domain.AppendBlockRequest{
			SessionID: testSessionID, ParentID: blocktree.RootFallbackID, Type: "Marquee",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error mapping", func(t *testing.T) {
		testCases := []struct {
			err    error
			status int
		}{
			{fmt.Errorf("%w: text-1", blocktree.ErrInvalidParent), http.StatusBadRequest},
			{fmt.Errorf("%w: nope", blocktree.ErrNotFound), http.StatusNotFound},
			{domain.ErrPreviewReadOnly, http.StatusConflict},
			{domain.ErrSessionNotFound, http.StatusNotFound},
			{fmt.Errorf("%w: cycle", blocktree.ErrCorrupt), http.StatusUnprocessableEntity},
			{errors.New("boom"), http.StatusInternalServerError},
		}
		for _, tc := range testCases {
			mockService, mux, token := setupEditorHandlerTest(t)
			mockService.EXPECT().AppendBlock(gomock.Any(), gomock.Any()).Return(nil, tc.err)

			w := sendRequest(t, mux, http.MethodPost, "/api/editor.appendBlock", token, domain.AppendBlockRequest{
				SessionID: testSessionID, ParentID: "text-1", Type: blocktree.TypeText,
			})
			assert.Equal(t, tc.status, w.Code, tc.err.Error())
		}
	})
}

func TestEditorHandler_InsertBlockAndComponent(t *testing.T) {
	mockService, mux, token := setupEditorHandlerTest(t)

	insert := domain.InsertBlockRequest{
		AppendBlockRequest: domain.AppendBlockRequest{SessionID: testSessionID, ParentID: blocktree.RootFallbackID, Type: blocktree.TypeDivider},
		Index:              3,
	}
	mockService.EXPECT().InsertBlock(gomock.Any(), insert).Return(&domain.BlockResponse{Session: testEditorSession(), BlockID: "block-2"}, nil)
	w := sendRequest(t, mux, http.MethodPost, "/api/editor.insertBlock", token, insert)
	assert.Equal(t, http.StatusOK, w.Code)

	component := domain.InsertComponentRequest{SessionID: testSessionID, ParentID: blocktree.RootFallbackID, TemplateID: testTemplateID}
	mockService.EXPECT().InsertComponent(gomock.Any(), component).Return(nil, &domain.ErrTemplateNotFound{Message: "template not found"})
	w = sendRequest(t, mux, http.MethodPost, "/api/editor.insertComponent", token, component)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditorHandler_StructuralEdits(t *testing.T) {
	mockService, mux, token := setupEditorHandlerTest(t)

	move := domain.MoveBlockRequest{SessionID: testSessionID, BlockID: "block-1", Direction: blocktree.DirectionUp}
	mockService.EXPECT().MoveBlock(gomock.Any(), move).Return(testEditorSession(), nil)
	w := sendRequest(t, mux, http.MethodPost, "/api/editor.moveBlock", token, move)
	assert.Equal(t, http.StatusOK, w.Code)

	w = sendRequest(t, mux, http.MethodPost, "/api/editor.moveBlock", token, domain.MoveBlockRequest{SessionID: testSessionID, BlockID: "block-1", Direction: "left"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	del := domain.BlockRequest{SessionID: testSessionID, BlockID: "block-1"}
	mockService.EXPECT().DeleteBlock(gomock.Any(), del).Return(testEditorSession(), nil)
	w = sendRequest(t, mux, http.MethodPost, "/api/editor.deleteBlock", token, del)
	assert.Equal(t, http.StatusOK, w.Code)

	w = sendRequest(t, mux, http.MethodPost, "/api/editor.deleteBlock", token, domain.BlockRequest{SessionID: testSessionID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	text, err := blocktree.DefaultBlock(blocktree.TypeText)
	require.NoError(t, err)
	mockService.EXPECT().UpdateBlock(gomock.Any(), gomock.Any()).DoAndReturn(func(_ interface{}, req domain.UpdateBlockRequest) (*domain.EditorSession, error) {
		assert.Equal(t, blocktree.TypeText, req.Block.Type())
		return testEditorSession(), nil
	})
	w = sendRequest(t, mux, http.MethodPost, "/api/editor.updateBlock", token, domain.UpdateBlockRequest{SessionID: testSessionID, BlockID: "block-1", Block: text})
	assert.Equal(t, http.StatusOK, w.Code)

	sel := domain.BlockRequest{SessionID: testSessionID}
	mockService.EXPECT().SelectBlock(gomock.Any(), sel).Return(testEditorSession(), nil)
	w = sendRequest(t, mux, http.MethodPost, "/api/editor.selectBlock", token, sel)
	assert.Equal(t, http.StatusOK, w.Code)

	tab := "preview"
	mockService.EXPECT().SetView(gomock.Any(), gomock.Any()).DoAndReturn(func(_ interface{}, req domain.SetViewRequest) (*domain.EditorSession, error) {
		require.NotNil(t, req.MainTab)
		assert.Equal(t, tab, *req.MainTab)
		assert.Nil(t, req.ScreenSize)
		return testEditorSession(), nil
	})
	w = sendRequest(t, mux, http.MethodPost, "/api/editor.setView", token, domain.SetViewRequest{SessionID: testSessionID, MainTab: &tab})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEditorHandler_Documents(t *testing.T) {
	mockService, mux, token := setupEditorHandlerTest(t)

	raw, err := json.Marshal(blocktree.EmptyDocument())
	require.NoError(t, err)
	mockService.EXPECT().ImportDocument(gomock.Any(), gomock.Any()).DoAndReturn(func(_ interface{}, req domain.ImportDocumentRequest) (*domain.EditorSession, error) {
		assert.JSONEq(t, string(raw), string(req.Document))
		return testEditorSession(), nil
	})
	w := sendRequest(t, mux, http.MethodPost, "/api/editor.importDocument", token, domain.ImportDocumentRequest{SessionID: testSessionID, Document: raw})
	assert.Equal(t, http.StatusOK, w.Code)

	mockService.EXPECT().ExportDocument(gomock.Any(), testSessionID).Return(blocktree.EmptyDocument(), nil)
	w = sendRequest(t, mux, http.MethodGet, "/api/editor.exportDocument?session_id="+testSessionID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	doc := decodeBody(t, w)["document"].(map[string]interface{})
	assert.Contains(t, doc, blocktree.RootFallbackID)

	mockService.EXPECT().ResetDocument(gomock.Any(), testSessionID).Return(testEditorSession(), nil)
	w = sendRequest(t, mux, http.MethodPost, "/api/editor.reset", token, domain.SessionRequest{SessionID: testSessionID})
	assert.Equal(t, http.StatusOK, w.Code)

	mockService.EXPECT().CollectOrphans(gomock.Any(), testSessionID).Return(&domain.OrphansResponse{Session: testEditorSession(), Removed: []string{"lost"}}, nil)
	w = sendRequest(t, mux, http.MethodPost, "/api/editor.collectOrphans", token, domain.SessionRequest{SessionID: testSessionID})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"lost"}, decodeBody(t, w)["removed"])
}

func TestEditorHandler_Preview(t *testing.T) {
	mockService, mux, token := setupEditorHandlerTest(t)

	load := domain.LoadTemplateRequest{SessionID: testSessionID, TemplateID: testTemplateID}
	mockService.EXPECT().LoadTemplate(gomock.Any(), load).Return(nil, domain.ErrRequestSuperseded)
	w := sendRequest(t, mux, http.MethodPost, "/api/editor.loadTemplate", token, load)
	assert.Equal(t, http.StatusConflict, w.Code)

	mockService.EXPECT().ExitPreview(gomock.Any(), testSessionID).Return(testEditorSession(), nil)
	w = sendRequest(t, mux, http.MethodPost, "/api/editor.exitPreview", token, domain.SessionRequest{SessionID: testSessionID})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEditorHandler_Output(t *testing.T) {
	mockService, mux, token := setupEditorHandlerTest(t)

	mockService.EXPECT().RenderHTML(gomock.Any(), testSessionID).Return("<html></html>", nil)
	w := sendRequest(t, mux, http.MethodGet, "/api/editor.html?session_id="+testSessionID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<html></html>", decodeBody(t, w)["html"])

	mockService.EXPECT().RenderHTML(gomock.Any(), testSessionID).Return("", fmt.Errorf("%w: mjml", blocktree.ErrUnavailable))
	w = sendRequest(t, mux, http.MethodGet, "/api/editor.html?session_id="+testSessionID, token, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	save := domain.SaveTemplateRequest{SessionID: testSessionID, Name: "Welcome", Subject: "Hello"}
	mockService.EXPECT().SaveTemplate(gomock.Any(), save).Return(createTestTemplate(), nil)
	w = sendRequest(t, mux, http.MethodPost, "/api/editor.save", token, save)
	assert.Equal(t, http.StatusOK, w.Code)

	component := domain.SaveComponentRequest{SessionID: testSessionID, BlockID: "block-1", Name: "Footer"}
	mockService.EXPECT().SaveComponent(gomock.Any(), component).Return(createTestTemplate(), nil)
	w = sendRequest(t, mux, http.MethodPost, "/api/editor.saveComponent", token, component)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = sendRequest(t, mux, http.MethodPost, "/api/editor.saveComponent", token, domain.SaveComponentRequest{SessionID: testSessionID, BlockID: "block-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
