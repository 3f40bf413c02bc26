package lowres

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ConversionLog persists one row per conversion to a sqlite database for
// later inspection. A failing insert is logged and otherwise ignored; stats
// never fail a conversion.
type ConversionLog struct {
	database string
}

func NewConversionLog(database string) *ConversionLog {
	return &ConversionLog{database: database}
}

func (c *ConversionLog) Record(source string, took time.Duration, size int) {
	if c == nil || c.database == "" {
		return
	}
	conn, err := sql.Open("sqlite3", c.database)
	if err != nil {
		log.Println("SQL Open error -> ", err)
		return
	}
	defer conn.Close()
	_, err = conn.Exec("Insert into conversions (source,time,bytes) values ( ? , ? , ? )", source, took, size)
	if err != nil {
		log.Println("SQL Insert error -> ", err)
	}
}
