// Package rekordbox reads DJ library databases.
//
// The Source interface abstracts library access: playlist tree rows,
// playlist listings and the track collection. SQLiteSource implements it
// against a rekordbox master.db opened read-only; the export orchestrator
// and the tests depend only on the interface.
//
// master.db as shipped is SQLCipher-encrypted. Open detects that and fails
// with ErrEncrypted; the tool works on decrypted copies.
package rekordbox
