package utils

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// Slugify turns a title into a URL-safe slug.
func Slugify(title string) string {
	return slug.Make(title)
}

// SlugifyUnique appends a short random suffix, for when the plain slug is
// already taken within the owner's scope.
func SlugifyUnique(title string) string {
	return fmt.Sprintf("%s-%s", slug.Make(title), strings.ToLower(GenerateID()))
}

// UsernameFromEmail derives a default username from the local part of an
// email address.
func UsernameFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i > 0 {
		local = email[:i]
	}
	return slug.Make(local)
}
