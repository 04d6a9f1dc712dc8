package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/hudaazehraa/neighborly/internal/domain/models"
)

func postForm(t *testing.T, env *testEnv, path, token string, form url.Values, xhr bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if xhr {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestSubmitComplaintXHRReturnsJSON(t *testing.T) {
	env := newTestEnv(t)
	_, resident, token := env.registerResident(t, "jane", "jane@example.com")

	w := postForm(t, env, "/complaint/", token, url.Values{
		"title":       {"Broken elevator"},
		"description": {"The elevator in block B is stuck."},
		"category":    {"maintenance"},
	}, true)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200, body=%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("success = %v, 期望 true", body["success"])
	}
	if _, ok := body["complaint_id"]; !ok {
		t.Error("缺少complaint_id")
	}

	var complaint models.Complaint
	if err := env.db.Where("resident_id = ?", resident.ID).First(&complaint).Error; err != nil {
		t.Fatalf("投诉未落库: %v", err)
	}
	if complaint.Status != models.StatusPending {
		t.Errorf("status = %q, 期望 %q", complaint.Status, models.StatusPending)
	}

	// 管理员通知和投诉人确认各一封
	if env.email.countBySubject("New Complaint") != 1 {
		t.Errorf("管理员通知数 = %d, 期望 1", env.email.countBySubject("New Complaint"))
	}
	if env.email.countBySubject("Complaint Received") != 1 {
		t.Errorf("确认邮件数 = %d, 期望 1", env.email.countBySubject("Complaint Received"))
	}
}

func TestSubmitComplaintFormRedirects(t *testing.T) {
	env := newTestEnv(t)
	_, _, token := env.registerResident(t, "jane", "jane@example.com")

	w := postForm(t, env, "/complaint/", token, url.Values{
		"title":       {"Noise"},
		"description": {"Loud music at night."},
	}, false)

	if w.Code != http.StatusFound {
		t.Fatalf("状态码 = %d, 期望 302, body=%s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/complaints/status/" {
		t.Errorf("Location = %q, 期望 /complaints/status/", loc)
	}
}

func TestSubmitComplaintXHRMissingFields(t *testing.T) {
	env := newTestEnv(t)
	_, _, token := env.registerResident(t, "jane", "jane@example.com")

	w := postForm(t, env, "/complaint/", token, url.Values{
		"title": {"   "},
	}, true)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("状态码 = %d, 期望 400", w.Code)
	}
	body := decodeBody(t, w)
	if body["success"] != false {
		t.Errorf("success = %v, 期望 false", body["success"])
	}
	errs, ok := body["errors"].(map[string]interface{})
	if !ok {
		t.Fatalf("errors字段缺失: %v", body)
	}
	if errs["title"] == nil || errs["description"] == nil {
		t.Errorf("errors = %v, 期望包含title和description", errs)
	}

	var count int64
	if err := env.db.Model(&models.Complaint{}).Count(&count).Error; err != nil {
		t.Fatalf("查询投诉失败: %v", err)
	}
	if count != 0 {
		t.Errorf("投诉数 = %d, 期望 0", count)
	}
}

func TestSubmitComplaintRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	w := postForm(t, env, "/complaint/", "", url.Values{
		"title":       {"Noise"},
		"description": {"Loud music."},
	}, true)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("状态码 = %d, 期望 401, body=%s", w.Code, w.Body.String())
	}
}

func TestAPISubmitComplaint(t *testing.T) {
	env := newTestEnv(t)
	_, _, token := env.registerResident(t, "jane", "jane@example.com")

	w := postJSON(t, env, "/api/complaints/submit/", token, map[string]string{
		"title":       "Water leak",
		"description": "Ceiling is dripping.",
		"category":    "maintenance",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, 期望 200, body=%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true {
		t.Errorf("success = %v, 期望 true", body["success"])
	}
	if body["status"] != models.StatusPending {
		t.Errorf("status = %v, 期望 %q", body["status"], models.StatusPending)
	}
}

func TestAPISubmitComplaintMissingFields(t *testing.T) {
	env := newTestEnv(t)
	_, _, token := env.registerResident(t, "jane", "jane@example.com")

	w := postJSON(t, env, "/api/complaints/submit/", token, map[string]string{
		"title": "No description",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("状态码 = %d, 期望 400", w.Code)
	}
}
