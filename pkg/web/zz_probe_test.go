package web_test

import (
	"net/http"
	"testing"

	"github.com/flowsmith/flowsmith/pkg/web"
)

func TestZZProbe(t *testing.T) {
	app := setupTestApp(t)
	session := createTestSession(t, app)

	resp, body := doJSON(t, app, http.MethodPut, "/sessions/"+session.ID+"/fields/name", web.FieldChangeRequest{Value: "Ana"})
	t.Logf("put name=Ana: status=%d body=%s", resp.StatusCode, body)

	resp, body = doJSON(t, app, http.MethodPost, "/sessions/"+session.ID+"/complete", nil)
	t.Logf("complete: status=%d body=%s", resp.StatusCode, body)
}
