package storage

func init() {
	RegisterAdapter(isStore, passthroughAdapter)
	RegisterAdapter(isSQLDB, newSQLAdapter)
	RegisterAdapter(isPgxPool, newPgxAdapter)
	RegisterAdapter(isMongoDB, newMongoAdapter)

	// drivers
	RegisterDriver(SQLite, newSQLDriver(SQLite))
	RegisterDriver(Postgres, newSQLDriver(Postgres))
	RegisterDriver(MySQL, newSQLDriver(MySQL))
	RegisterDriver(MongoDB, newMongoDriver)
}

func isStore(conn any) bool {
	_, ok := conn.(Store)
	return ok
}

func passthroughAdapter(conn any) (Adapter, error) {
	return conn.(Store), nil
}
