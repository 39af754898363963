package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type joinForm struct {
	Email    string `json:"email" validate:"required|email"`
	Password string `json:"password" validate:"required|min:4"`
}

func TestStructPasses(t *testing.T) {
	errs := Struct(joinForm{Email: "a@example.com", Password: "secret"})
	assert.Nil(t, errs)
}

func TestRequired(t *testing.T) {
	errs := Struct(joinForm{})
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestEmail(t *testing.T) {
	errs := Struct(joinForm{Email: "not-an-email", Password: "secret"})
	assert.Contains(t, errs, "email")
}

func TestMinOnStringLength(t *testing.T) {
	errs := Struct(joinForm{Email: "a@example.com", Password: "abc"})
	assert.Contains(t, errs, "password")
}

func TestNullableSkipsEmpty(t *testing.T) {
	type form struct {
		Site string `json:"site" validate:"nullable|url"`
	}
	assert.Nil(t, Struct(form{}))
	assert.Contains(t, Struct(form{Site: "not a url"}), "site")
	assert.Nil(t, Struct(form{Site: "https://example.com/x"}))
}

func TestNumericBounds(t *testing.T) {
	type form struct {
		Star int `json:"star" validate:"required|gte:1|lte:5"`
	}
	assert.Contains(t, Struct(form{Star: 6}), "star")
	assert.Nil(t, Struct(form{Star: 3}))
}

func TestIn(t *testing.T) {
	type form struct {
		Kind string `json:"kind" validate:"required|in:image,video,splat"`
	}
	assert.Nil(t, Struct(form{Kind: "splat"}))
	assert.Contains(t, Struct(form{Kind: "audio"}), "kind")
}

func TestNilPointerWithRequired(t *testing.T) {
	type form struct {
		CategoryID *uint `json:"category_id" validate:"required"`
	}
	assert.Contains(t, Struct(form{}), "category_id")

	id := uint(3)
	assert.Nil(t, Struct(form{CategoryID: &id}))
}

func TestFieldNameUsesJSONTag(t *testing.T) {
	type form struct {
		DisplayName string `json:"display_name" validate:"required"`
	}
	errs := Struct(form{})
	assert.Contains(t, errs, "display_name")
	assert.NotContains(t, errs, "DisplayName")
}
