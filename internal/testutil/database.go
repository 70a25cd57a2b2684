package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration database. It expects a MySQL instance
// reachable through TEST_MYSQL_DSN (default root@localhost:3306/supplierhub_test)
// and skips the test when none is available.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/supplierhub_test?parseTime=true&clientFoundRows=true"
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every table and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"Notifications", "NotificationPreferences", "SubOrders", "MasterOrders", "Products"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the tables the repositories read and write.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProductsTable := `
	CREATE TABLE IF NOT EXISTS Products (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		supplierId VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL DEFAULT '',
		stockQuantity INT NOT NULL DEFAULT 0,
		isAvailable TINYINT(1) NOT NULL DEFAULT 1,
		updatedAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		INDEX idx_supplier (supplierId)
	)`

	createMasterOrdersTable := `
	CREATE TABLE IF NOT EXISTS MasterOrders (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		buyerId VARCHAR(64) NOT NULL,
		buyerName VARCHAR(255) NOT NULL DEFAULT '',
		buyerEmail VARCHAR(255) NOT NULL DEFAULT '',
		buyerPhone VARCHAR(64) NOT NULL DEFAULT '',
		subtotal DECIMAL(12,2) NOT NULL DEFAULT 0,
		deliveryFee DECIMAL(12,2) NOT NULL DEFAULT 0,
		tax DECIMAL(12,2) NOT NULL DEFAULT 0,
		discount DECIMAL(12,2) NOT NULL DEFAULT 0,
		total DECIMAL(12,2) NOT NULL DEFAULT 0,
		status VARCHAR(32) NOT NULL DEFAULT 'pending',
		paymentStatus VARCHAR(32) NOT NULL DEFAULT 'pending',
		subOrderIds JSON NOT NULL,
		createdAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updatedAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		confirmedAt DATETIME(3) NULL,
		deliveredAt DATETIME(3) NULL
	)`

	createSubOrdersTable := `
	CREATE TABLE IF NOT EXISTS SubOrders (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		masterOrderId VARCHAR(64) NOT NULL,
		supplierId VARCHAR(64) NOT NULL,
		supplierName VARCHAR(255) NOT NULL DEFAULT '',
		buyerId VARCHAR(64) NOT NULL,
		buyerName VARCHAR(255) NOT NULL DEFAULT '',
		buyerEmail VARCHAR(255) NOT NULL DEFAULT '',
		buyerPhone VARCHAR(64) NOT NULL DEFAULT '',
		items JSON NOT NULL,
		subtotal DECIMAL(12,2) NOT NULL DEFAULT 0,
		deliveryFee DECIMAL(12,2) NOT NULL DEFAULT 0,
		tax DECIMAL(12,2) NOT NULL DEFAULT 0,
		discount DECIMAL(12,2) NOT NULL DEFAULT 0,
		total DECIMAL(12,2) NOT NULL DEFAULT 0,
		status VARCHAR(32) NOT NULL DEFAULT 'pending',
		paymentStatus VARCHAR(32) NOT NULL DEFAULT 'pending',
		paymentMethod VARCHAR(64) NOT NULL DEFAULT '',
		deliveryAddress VARCHAR(512) NOT NULL DEFAULT '',
		orderNotes TEXT,
		createdAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		updatedAt DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
		confirmedAt DATETIME(3) NULL,
		deliveredAt DATETIME(3) NULL,
		stockDecrementedAt DATETIME(3) NULL,
		INDEX idx_master (masterOrderId),
		INDEX idx_supplier (supplierId)
	)`

	createPreferencesTable := `
	CREATE TABLE IF NOT EXISTS NotificationPreferences (
		supplierId VARCHAR(64) NOT NULL PRIMARY KEY,
		categories JSON NOT NULL,
		inAppNotifications TINYINT(1) NOT NULL DEFAULT 1,
		emailNotifications TINYINT(1) NOT NULL DEFAULT 1,
		smsNotifications TINYINT(1) NOT NULL DEFAULT 0,
		quietHoursEnabled TINYINT(1) NOT NULL DEFAULT 0,
		quietHoursStart VARCHAR(5) NOT NULL DEFAULT '22:00',
		quietHoursEnd VARCHAR(5) NOT NULL DEFAULT '07:00'
	)`

	createNotificationsTable := `
	CREATE TABLE IF NOT EXISTS Notifications (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		supplierId VARCHAR(64) NOT NULL,
		type VARCHAR(32) NOT NULL,
		subType VARCHAR(64) NOT NULL,
		title VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		priority VARCHAR(16) NOT NULL,
		orderId VARCHAR(64) NULL,
		productId VARCHAR(64) NULL,
		isRead TINYINT(1) NOT NULL DEFAULT 0,
		isArchived TINYINT(1) NOT NULL DEFAULT 0,
		clicked TINYINT(1) NOT NULL DEFAULT 0,
		emailFollowUp TINYINT(1) NOT NULL DEFAULT 0,
		data JSON NOT NULL,
		createdAt DATETIME(3) NOT NULL,
		INDEX idx_supplier_created (supplierId, createdAt)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Products", createProductsTable},
		{"MasterOrders", createMasterOrdersTable},
		{"SubOrders", createSubOrdersTable},
		{"NotificationPreferences", createPreferencesTable},
		{"Notifications", createNotificationsTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
