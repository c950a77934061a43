package schemas

import "embed"

// SchemasFS содержит JSON-схемы внешних payload'ов и событий
//
//go:embed estaty events
var SchemasFS embed.FS
