// Package all links in every storage backend.
package all

import (
	_ "panelprep/internal/storage/mssql"
	_ "panelprep/internal/storage/postgres"
	_ "panelprep/internal/storage/sqlite"
)
