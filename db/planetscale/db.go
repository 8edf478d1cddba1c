package planetscale

import (
	"database/sql"
	"time"

	appDb "github.com/billix/billix-be/db"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/mysql"
)

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
}

type PlanetScaleDB struct {
	*UserDB
	*GroupDB
	*PostDB
	*RewardsDB
	*ReliefDB
	*SwapDB
	sess  db.Session
	sqlDB *sql.DB
}

var _ appDb.Database = (*PlanetScaleDB)(nil)

func GetDatabase(cfg *Config) (*PlanetScaleDB, error) {
	sqlDB, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	sess, err := mysql.New(sqlDB)
	if err != nil {
		return nil, err
	}

	return &PlanetScaleDB{
		UserDB:    getUserDB(sess),
		GroupDB:   getGroupDB(sess),
		PostDB:    getPostDB(sess),
		RewardsDB: getRewardsDB(sess),
		ReliefDB:  getReliefDB(sess),
		SwapDB:    getSwapDB(sess),
		sess:      sess,
		sqlDB:     sqlDB,
	}, nil
}

func (psdb *PlanetScaleDB) GetSQLDB() *sql.DB {
	return psdb.sqlDB
}

func (psdb *PlanetScaleDB) Close() error {
	return psdb.sess.Close()
}
