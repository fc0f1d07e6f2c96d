package storage

var sqliteMigrations = map[int][]string{
	1: {
		`CREATE TABLE IF NOT EXISTS ledgerdash_schema_version (num INTEGER NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			image_url TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			amount INTEGER NOT NULL,
			status TEXT NOT NULL,
			date TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_customer_id ON invoices (customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_date ON invoices (date)`,
		`CREATE TABLE IF NOT EXISTS revenue (
			month TEXT PRIMARY KEY,
			revenue INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
	},
}

var postgresMigrations = map[int][]string{
	1: {
		`CREATE TABLE IF NOT EXISTS ledgerdash_schema_version (num INTEGER NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			image_url VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id VARCHAR(36) PRIMARY KEY,
			customer_id VARCHAR(36) NOT NULL,
			amount BIGINT NOT NULL,
			status VARCHAR(255) NOT NULL,
			date VARCHAR(10) NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_customer_id ON invoices (customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_date ON invoices (date)`,
		`CREATE TABLE IF NOT EXISTS revenue (
			month VARCHAR(4) PRIMARY KEY,
			revenue BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			expires_at BIGINT NOT NULL
		)`,
	},
}

var mysqlMigrations = map[int][]string{
	1: {
		`CREATE TABLE IF NOT EXISTS ledgerdash_schema_version (num INT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id VARCHAR(36) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			image_url VARCHAR(255) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id VARCHAR(36) PRIMARY KEY,
			customer_id VARCHAR(36) NOT NULL,
			amount BIGINT NOT NULL,
			status VARCHAR(255) NOT NULL,
			date VARCHAR(10) NOT NULL,
			INDEX idx_invoices_customer_id (customer_id),
			INDEX idx_invoices_date (date)
		)`,
		`CREATE TABLE IF NOT EXISTS revenue (
			month VARCHAR(4) PRIMARY KEY,
			revenue BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			expires_at BIGINT NOT NULL
		)`,
	},
}
