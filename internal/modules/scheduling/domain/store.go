package domain

// DataStoreName selects where review state is persisted.
type DataStoreName string

const (
	DataStoreNotes  DataStoreName = "NOTES"
	DataStoreSQLite DataStoreName = "SQLITE"
)

func DataStoreNames() []DataStoreName {
	return []DataStoreName{DataStoreNotes, DataStoreSQLite}
}
