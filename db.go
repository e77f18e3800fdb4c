package lvimg

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/lvimg/lvbin"
	_ "github.com/mattn/go-sqlite3"
)

// AssetDB is a catalog of converted containers, deduplicated by the
// CRC-32 of their bytes.
type AssetDB struct {
	db *sql.DB
}

func NewAssetDB(file string) (*AssetDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS asset (id INTEGER PRIMARY KEY NOT NULL, crc TEXT NOT NULL UNIQUE, name STRING NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, format STRING NOT NULL, bin BLOB NOT NULL)"); err != nil {
		return nil, err
	}

	return &AssetDB{
		db: db,
	}, nil
}

func (db *AssetDB) Close() error {
	return db.db.Close()
}

// Add stores a container, returning the existing row when one with the
// same CRC is already catalogued.
func (db *AssetDB) Add(name string, h lvbin.Header, bin []byte) (int64, error) {
	crc := crcBytes(bin)

	var id int64
	switch err := db.db.QueryRow("SELECT id FROM asset WHERE crc = ?", crc).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO asset (crc, name, width, height, format, bin) VALUES (?, ?, ?, ?, ?, ?)", crc, name, h.Width, h.Height, h.Format.String(), bin)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// FindByCRC returns the container bytes catalogued under the given
// CRC, or nil when there is no match.
func (db *AssetDB) FindByCRC(crc string) ([]byte, error) {
	var bin []byte
	switch err := db.db.QueryRow("SELECT bin FROM asset WHERE crc = ?", crc).Scan(&bin); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return bin, nil
	default:
		return nil, err
	}
}

// FindByName returns the most recently catalogued container with the
// given asset name, or nil when there is no match.
func (db *AssetDB) FindByName(name string) ([]byte, error) {
	var bin []byte
	switch err := db.db.QueryRow("SELECT bin FROM asset WHERE name = ? ORDER BY id DESC LIMIT 1", name).Scan(&bin); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return bin, nil
	default:
		return nil, err
	}
}
