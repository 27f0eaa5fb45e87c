package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	appErrors "github.com/fatali-fataliyev/thriftier/errors"
	"github.com/fatali-fataliyev/thriftier/internal/config"
	"github.com/fatali-fataliyev/thriftier/internal/contextutil"
	"github.com/fatali-fataliyev/thriftier/internal/expense"
	"github.com/fatali-fataliyev/thriftier/logging"
	"github.com/go-sql-driver/mysql"
)

const (
	pingAttempts = 15
	pingInterval = 3 * time.Second

	// ER_WARN_DATA_OUT_OF_RANGE, raised by strict mode for amounts wider than DECIMAL(10,2).
	errOutOfRange = 1264
)

// --- INIT START --- //

// BuildDSN resolves the connection string for the ledger database. FULL_DSN
// wins over the individual settings; parseTime is always switched on.
func BuildDSN(dbCfg config.DBConfig) (*mysql.Config, error) {
	var cfg *mysql.Config
	if dbCfg.FullDSN != "" {
		parsed, err := mysql.ParseDSN(dbCfg.FullDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to parse FULL_DSN: %v", err)
		}
		cfg = parsed
	} else {
		if dbCfg.User == "" || dbCfg.Password == "" || dbCfg.Host == "" || dbCfg.Port == "" {
			return nil, fmt.Errorf("missing required DB environment variables")
		}
		cfg = mysql.NewConfig()
		cfg.User = dbCfg.User
		cfg.Passwd = dbCfg.Password
		cfg.Net = "tcp"
		cfg.Addr = dbCfg.Host + ":" + dbCfg.Port
		cfg.DBName = dbCfg.Name
	}

	if cfg.DBName == "" {
		cfg.DBName = dbCfg.Name
	}
	cfg.ParseTime = true
	return cfg, nil
}

// Init waits for the server, creates the database when it is missing and
// applies the migrations. It returns the open handle and the DSN it used.
func Init(ctx context.Context, dbCfg config.DBConfig) (*sql.DB, string, error) {
	cfg, err := BuildDSN(dbCfg)
	if err != nil {
		return nil, "", err
	}
	dbname := cfg.DBName

	adminCfg := cfg.Clone()
	adminCfg.DBName = ""

	logging.Logger.Info("Connecting to MySQL server for initialization...")
	adminDb, err := sql.Open("mysql", adminCfg.FormatDSN())
	if err != nil {
		return nil, "", fmt.Errorf("failed to open admin mysql handle: %v", err)
	}
	defer adminDb.Close()

	if err := waitForServer(ctx, adminDb); err != nil {
		return nil, "", err
	}

	var dbnameExistence string
	checkDbnameExistQuery := "SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?"
	err = adminDb.QueryRowContext(ctx, checkDbnameExistQuery, dbname).Scan(&dbnameExistence)

	if errors.Is(err, sql.ErrNoRows) {
		logging.Logger.Infof("Database '%s' does not exist, creating...", dbname)
		createDbSql := fmt.Sprintf("CREATE DATABASE `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci;", dbname)
		if _, err := adminDb.ExecContext(ctx, createDbSql); err != nil {
			return nil, "", fmt.Errorf("failed to create database: %v", err)
		}
	} else if err != nil {
		return nil, "", fmt.Errorf("failed to check database existence: %v", err)
	}

	dsn := cfg.FormatDSN()

	logging.Logger.Info("Running migrations...")
	if err := RunMigrations(dsn); err != nil {
		return nil, "", fmt.Errorf("failed to run migrations: %v", err)
	}
	logging.Logger.Info("all migrations applied successfully")

	logging.Logger.Info("Connecting to database...")
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database handle: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to connect to database: %v", err)
	}

	logging.Logger.Info("Connected to database successfully")
	return db, dsn, nil
}

func waitForServer(ctx context.Context, db *sql.DB) error {
	for i := 0; i < pingAttempts; i++ {
		if err := db.PingContext(ctx); err == nil {
			return nil
		}
		logging.Logger.Warnf("Database not ready, retrying... (%d/%d)", i+1, pingAttempts)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pingInterval):
		}
	}
	return fmt.Errorf("database unreachable after multiple attempts")
}

// --- INIT END --- //

type MySQLStorage struct {
	db *sql.DB
}

func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

func (mySql *MySQLStorage) GetStorageType() string {
	return "MySQL"
}

func (mySql *MySQLStorage) SaveExpense(ctx context.Context, entry expense.Entry) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	tx, err := mySql.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to start SQL transaction in Storage.SaveExpense() function | Error: %v", traceID, err)
		return appErrors.Internal("Failed to save the expense, try again later.")
	}

	userQuery := "INSERT IGNORE INTO users (user_id) VALUES (?);"
	if _, err := tx.ExecContext(ctx, userQuery, entry.UserID); err != nil {
		tx.Rollback()
		logging.Logger.Errorf("[TraceID=%s] | failed to register user in Storage.SaveExpense() function | Error: %v", traceID, err)
		return appErrors.Internal("Failed to save the expense, try again later.")
	}

	expenseQuery := "INSERT INTO expenses (id, user_id, amount, category, date) VALUES (?, ?, ?, ?, ?);"
	_, err = tx.ExecContext(ctx, expenseQuery, entry.ID, entry.UserID, entry.Amount.StringFixed(2), entry.Category, entry.Date.Format(expense.DateLayout))
	if err != nil {
		tx.Rollback()
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == errOutOfRange {
			return appErrors.Feedback(appErrors.ErrInvalidAmount, expense.InvalidAmountMessage)
		}

		logging.Logger.Errorf("[TraceID=%s] | failed to save expense in Storage.SaveExpense() function | Error: %v", traceID, err)
		return appErrors.Internal("Failed to save the expense, try again later.")
	}

	if err := tx.Commit(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to commit SQL transaction in Storage.SaveExpense() function | Error: %v", traceID, err)
		return appErrors.Internal("Failed to save the expense, try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) GetExpensesInRange(ctx context.Context, userID string, dateRange expense.DateRange) ([]expense.Entry, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, user_id, amount, category, date FROM expenses WHERE user_id = ? AND date BETWEEN ? AND ? ORDER BY date, seq;"
	rows, err := mySql.db.QueryContext(ctx, query, userID, dateRange.StartString(), dateRange.EndString())
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to query expenses in Storage.GetExpensesInRange() function | Error: %v", traceID, err)
		return nil, appErrors.Internal("Failed to get expenses, try again later.")
	}

	return mySql.processExpenseRows(ctx, rows)
}

func (mySql *MySQLStorage) processExpenseRows(ctx context.Context, rows *sql.Rows) ([]expense.Entry, error) {
	traceID := contextutil.TraceIDFromContext(ctx)
	defer rows.Close()

	entries := []expense.Entry{}

	for rows.Next() {
		var raw dbExpense

		err := rows.Scan(&raw.ID, &raw.UserID, &raw.Amount, &raw.Category, &raw.Date)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.processExpenseRows() function | Error : %v", traceID, err)
			return nil, appErrors.Internal("Failed to get expenses, try again later.")
		}

		entries = append(entries, raw.toEntry())
	}

	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.processExpenseRows() function | Error : %v", traceID, err)
		return nil, appErrors.Internal("Failed to get expenses, try again later.")
	}

	return entries, nil
}

func (mySql *MySQLStorage) DeleteExpense(ctx context.Context, userID string, entryID string) (int64, error) {
	query := "DELETE FROM expenses WHERE user_id = ? AND id = ?;"
	return mySql.execDelete(ctx, "DeleteExpense", query, userID, entryID)
}

func (mySql *MySQLStorage) DeleteExpenseMatching(ctx context.Context, userID string, entry expense.Entry) (int64, error) {
	query := "DELETE FROM expenses WHERE user_id = ? AND amount = ? AND category = ? AND date = ?;"
	return mySql.execDelete(ctx, "DeleteExpenseMatching", query, userID, entry.Amount.StringFixed(2), entry.Category, entry.Date.Format(expense.DateLayout))
}

func (mySql *MySQLStorage) execDelete(ctx context.Context, function string, query string, args ...any) (int64, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	result, err := mySql.db.ExecContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete expense in Storage.%s() function | Error : %v", traceID, function, err)
		return 0, appErrors.Internal("Failed to remove the expense, try again later.")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check expense delete status in Storage.%s() function | Error : %v", traceID, function, err)
		return 0, appErrors.Internal("Failed to remove the expense, try again later.")
	}
	return rowsAffected, nil
}

func (mySql *MySQLStorage) Ping(ctx context.Context) error {
	return mySql.db.PingContext(ctx)
}

func (mySql *MySQLStorage) Close() error {
	return mySql.db.Close()
}
