package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/developer-az/food-tracker/internal/util"
)

func TestSafeNext(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/dashboard/"},
		{"/weekly/", "/weekly/"},
		{"/foods/?search=apple", "/foods/?search=apple"},
		{"https://evil.example.com/", "/dashboard/"},
		{"//evil.example.com/", "/dashboard/"},
		{`/\evil.example.com`, "/dashboard/"},
	}
	for _, tc := range cases {
		if got := safeNext(tc.in, "/dashboard/"); got != tc.want {
			t.Errorf("safeNext(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFlashRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/goals/", nil)
	addFlash(c, "success", "Goals updated successfully!")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != flashCookie {
		t.Fatalf("expected one %s cookie, got %v", flashCookie, cookies)
	}

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
	c2.Request.AddCookie(cookies[0])

	got := takeFlashes(c2)
	if len(got) != 1 || got[0].Level != "success" || got[0].Message != "Goals updated successfully!" {
		t.Fatalf("unexpected flashes: %+v", got)
	}
	cleared := w2.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Errorf("flash cookie not cleared: %v", cleared)
	}
}

func TestFormErrors(t *testing.T) {
	cases := []struct {
		err   error
		ok    bool
		field string
	}{
		{util.NewValidationError("quantity_g", "bad"), true, "quantity_g"},
		{fmt.Errorf("create food: %w", util.ErrConflict), true, "name"},
		{errors.New("disk full"), false, ""},
	}
	for _, tc := range cases {
		ve, ok := formErrors(tc.err, "name", "taken")
		if ok != tc.ok {
			t.Errorf("formErrors(%v) ok = %v, want %v", tc.err, ok, tc.ok)
			continue
		}
		if ok && ve.Field(tc.field) == "" {
			t.Errorf("formErrors(%v) has no message for %q", tc.err, tc.field)
		}
	}
}
