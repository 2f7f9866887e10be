package db

// Log is one access-log row as persisted by the batch daemon. Attrs carry the
// structured request fields (method, path, status, bytes, duration) as JSON,
// so the schema survives new fields without migrations.
type Log struct {
	Level    int64
	Message  string
	JsonData string
	Created  string
}
