package folio

import "embed"

// EmbeddedAssets contains the stylesheet shipped with the default views,
// served under /static/.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
