package monthversary

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func decodeSlide(t *testing.T, body []byte) Slide {
	t.Helper()
	var sl Slide
	if err := json.Unmarshal(body, &sl); err != nil {
		t.Fatalf("invalid slide JSON: %v", err)
	}
	return sl
}

func decodeSlides(t *testing.T, body []byte) []Slide {
	t.Helper()
	var slides []Slide
	if err := json.Unmarshal(body, &slides); err != nil {
		t.Fatalf("invalid slide list JSON: %v", err)
	}
	return slides
}

func TestSlideLifecycleOverHTTP(t *testing.T) {
	a := newTestApp(t)
	cookies := editorCookies(t, a)

	// Create.
	rec := doJSON(t, a, http.MethodPost, "/api/admin/slides",
		`{"type":"cover","title":"Hello","subtitle":"world"}`, cookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeSlide(t, rec.Body.Bytes())
	if created.ID == "" || created.Title != "Hello" || created.Order != 0 {
		t.Fatalf("created = %+v", created)
	}
	if created.BackgroundColor != DefaultBackground {
		t.Errorf("BackgroundColor = %q, want %q", created.BackgroundColor, DefaultBackground)
	}

	// Update only the title; everything else keeps its value.
	rec = doJSON(t, a, http.MethodPut, "/api/admin/slides/"+created.ID,
		`{"title":"Renamed","isPublished":true}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeSlide(t, rec.Body.Bytes())
	if updated.Title != "Renamed" || updated.Subtitle != "world" || !updated.IsPublished {
		t.Fatalf("updated = %+v", updated)
	}

	// Published slide now shows up on the public API.
	rec = doJSON(t, a, http.MethodGet, "/api/slides", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("public slides status = %d", rec.Code)
	}
	public := decodeSlides(t, rec.Body.Bytes())
	if len(public) != 1 || public[0].ID != created.ID {
		t.Fatalf("public deck = %+v", public)
	}

	// Delete.
	rec = doJSON(t, a, http.MethodDelete, "/api/admin/slides/"+created.ID, "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, a, http.MethodDelete, "/api/admin/slides/"+created.ID, "", cookies)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}

	// The cache invalidation propagates to the public deck.
	rec = doJSON(t, a, http.MethodGet, "/api/slides", "", nil)
	if got := decodeSlides(t, rec.Body.Bytes()); len(got) != 0 {
		t.Fatalf("public deck after delete = %+v", got)
	}
}

func TestCreateSlideInvalidType(t *testing.T) {
	a := newTestApp(t)
	cookies := editorCookies(t, a)

	rec := doJSON(t, a, http.MethodPost, "/api/admin/slides",
		`{"type":"banner","title":"nope"}`, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid slide type") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestUpdateSlideInvalidType(t *testing.T) {
	a := newTestApp(t)
	cookies := editorCookies(t, a)

	rec := doJSON(t, a, http.MethodPost, "/api/admin/slides",
		`{"type":"cover","title":"keep"}`, cookies)
	created := decodeSlide(t, rec.Body.Bytes())

	rec = doJSON(t, a, http.MethodPut, "/api/admin/slides/"+created.ID,
		`{"type":"banner"}`, cookies)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid slide type") {
		t.Errorf("body = %s", rec.Body.String())
	}

	// The rejected patch must not have touched the record.
	rec = doJSON(t, a, http.MethodGet, "/api/admin/slides", "", cookies)
	got := decodeSlides(t, rec.Body.Bytes())
	if len(got) != 1 || got[0].Type != SlideCover {
		t.Errorf("slide after rejected patch = %+v", got)
	}
}

func TestUpdateSlideMissing(t *testing.T) {
	a := newTestApp(t)
	cookies := editorCookies(t, a)

	rec := doJSON(t, a, http.MethodPut, "/api/admin/slides/no-such-id",
		`{"title":"x"}`, cookies)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Slide not found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestReorderOverHTTP(t *testing.T) {
	a := newTestApp(t)
	cookies := editorCookies(t, a)

	var ids []string
	for _, typ := range []string{"cover", "photo", "closing"} {
		rec := doJSON(t, a, http.MethodPost, "/api/admin/slides",
			`{"type":"`+typ+`","isPublished":true}`, cookies)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s status = %d", typ, rec.Code)
		}
		ids = append(ids, decodeSlide(t, rec.Body.Bytes()).ID)
	}

	body, _ := json.Marshal(map[string]any{"slideIds": []string{ids[2], ids[0], ids[1]}})
	rec := doJSON(t, a, http.MethodPut, "/api/admin/reorder", string(body), cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("reorder status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, a, http.MethodGet, "/api/admin/slides", "", cookies)
	got := decodeSlides(t, rec.Body.Bytes())
	want := []string{ids[2], ids[0], ids[1]}
	for i, sl := range got {
		if sl.ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, sl.ID, want[i])
		}
	}
}

func TestReorderRejectsNonArray(t *testing.T) {
	a := newTestApp(t)
	cookies := editorCookies(t, a)

	for _, body := range []string{
		`{}`,
		`{"slideIds":"abc"}`,
		`{"slideIds":42}`,
		`{"slideIds":null}`,
	} {
		rec := doJSON(t, a, http.MethodPut, "/api/admin/reorder", body, cookies)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
			continue
		}
		if !strings.Contains(rec.Body.String(), "slideIds must be an array") {
			t.Errorf("body %s: response = %s", body, rec.Body.String())
		}
	}
}

func TestPublishAllOverHTTP(t *testing.T) {
	a := newTestApp(t)
	cookies := editorCookies(t, a)

	for _, typ := range []string{"cover", "quote"} {
		doJSON(t, a, http.MethodPost, "/api/admin/slides", `{"type":"`+typ+`"}`, cookies)
	}

	rec := doJSON(t, a, http.MethodPut, "/api/admin/publish-all",
		`{"isPublished":true}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("publish-all status = %d", rec.Code)
	}
	rec = doJSON(t, a, http.MethodGet, "/api/slides", "", nil)
	if got := decodeSlides(t, rec.Body.Bytes()); len(got) != 2 {
		t.Fatalf("public deck after publish-all = %d slides, want 2", len(got))
	}

	rec = doJSON(t, a, http.MethodPut, "/api/admin/publish-all",
		`{"isPublished":false}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("unpublish-all status = %d", rec.Code)
	}
	rec = doJSON(t, a, http.MethodGet, "/api/slides", "", nil)
	if got := decodeSlides(t, rec.Body.Bytes()); len(got) != 0 {
		t.Fatalf("public deck after unpublish-all = %d slides, want 0", len(got))
	}
}

func TestSettingsOverHTTP(t *testing.T) {
	a := newTestApp(t)
	cookies := editorCookies(t, a)

	rec := doJSON(t, a, http.MethodGet, "/api/admin/settings", "", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("settings status = %d", rec.Code)
	}
	var settings Settings
	if err := json.Unmarshal(rec.Body.Bytes(), &settings); err != nil {
		t.Fatalf("invalid settings JSON: %v", err)
	}
	if settings.SiteTitle != DefaultSiteTitle {
		t.Errorf("SiteTitle = %q", settings.SiteTitle)
	}

	rec = doJSON(t, a, http.MethodPut, "/api/admin/settings",
		`{"siteTitle":"Month Twelve","backgroundMusicEnabled":true}`, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("settings update status = %d: %s", rec.Code, rec.Body.String())
	}

	// The public projection carries the new title but no timestamps.
	rec = doJSON(t, a, http.MethodGet, "/api/settings", "", nil)
	var public map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &public); err != nil {
		t.Fatalf("invalid public settings JSON: %v", err)
	}
	if public["siteTitle"] != "Month Twelve" {
		t.Errorf("public siteTitle = %v", public["siteTitle"])
	}
	if public["backgroundMusicEnabled"] != true {
		t.Errorf("public backgroundMusicEnabled = %v", public["backgroundMusicEnabled"])
	}
	if _, ok := public["createdAt"]; ok {
		t.Error("public settings leaked createdAt")
	}
	if _, ok := public["updatedAt"]; ok {
		t.Error("public settings leaked updatedAt")
	}
}

func TestAPIErrorsAreJSON(t *testing.T) {
	a := newTestApp(t)

	rec := doJSON(t, a, http.MethodGet, "/api/admin/slides", "", nil)
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error response is not JSON: %s", rec.Body.String())
	}
	if resp["error"] == "" {
		t.Errorf("response = %v", resp)
	}
}

func TestUnknownPage(t *testing.T) {
	a := newTestApp(t)

	rec := doJSON(t, a, http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Page not found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCacheControlHeaders(t *testing.T) {
	a := newTestApp(t)
	cookies := editorCookies(t, a)

	rec := doJSON(t, a, http.MethodGet, "/api/slides", "", nil)
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "no-cache") {
		t.Errorf("public API Cache-Control = %q", cc)
	}

	rec = doJSON(t, a, http.MethodGet, "/api/admin/slides", "", cookies)
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("editor API Cache-Control = %q", cc)
	}
}
