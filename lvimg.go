/*
Package lvimg converts LVGL image assets between C source arrays, the
binary .bin container used by the firmware, and PNG files for human
inspection.
*/
package lvimg

import "log"

type LVImg struct {
	db     *AssetDB
	logger *log.Logger
}

// New returns a converter reporting through logger. db may be nil when
// no asset catalog is wanted.
func New(db *AssetDB, logger *log.Logger) *LVImg {
	return &LVImg{
		db:     db,
		logger: logger,
	}
}
