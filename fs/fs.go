// Package appfs embeds static assets (SQL migrations, email templates) in the binary.
package appfs

import "embed"

//go:embed migrations templates
var FS embed.FS
