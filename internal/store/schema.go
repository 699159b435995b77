package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// salesSchema is executed in order; DDL is shared by SQLite and Postgres.
var salesSchema = []string{
	`CREATE TABLE regions (
		region_id INTEGER PRIMARY KEY,
		region_name TEXT UNIQUE
	)`,
	`CREATE TABLE products (
		product_id INTEGER PRIMARY KEY,
		product_name TEXT UNIQUE,
		price REAL
	)`,
	`CREATE TABLE customers (
		customer_id INTEGER PRIMARY KEY,
		customer_name TEXT UNIQUE,
		region_id INTEGER REFERENCES regions(region_id)
	)`,
	`CREATE TABLE salespersons (
		salesperson_id INTEGER PRIMARY KEY,
		salesperson_name TEXT UNIQUE,
		region_id INTEGER REFERENCES regions(region_id)
	)`,
	`CREATE TABLE sales (
		sale_id INTEGER PRIMARY KEY,
		region_id INTEGER REFERENCES regions(region_id),
		product_id INTEGER REFERENCES products(product_id),
		customer_id INTEGER REFERENCES customers(customer_id),
		salesperson_id INTEGER REFERENCES salespersons(salesperson_id),
		amount REAL,
		date TEXT
	)`,
}

// dropOrder removes dependents first.
var dropOrder = []string{"sales", "salespersons", "customers", "products", "regions"}

type seedTable struct {
	table   string
	columns []string
	rows    [][]any
}

var salesSeed = []seedTable{
	{"regions", []string{"region_id", "region_name"}, [][]any{
		{1, "North"}, {2, "South"}, {3, "East"}, {4, "West"},
	}},
	{"products", []string{"product_id", "product_name", "price"}, [][]any{
		{1, "Widget", 25.0}, {2, "Gadget", 40.0}, {3, "Thingamajig", 15.0},
	}},
	{"customers", []string{"customer_id", "customer_name", "region_id"}, [][]any{
		{1, "Alice", 1}, {2, "Bob", 2}, {3, "Charlie", 3}, {4, "Diana", 4},
	}},
	{"salespersons", []string{"salesperson_id", "salesperson_name", "region_id"}, [][]any{
		{1, "Eve", 1}, {2, "Frank", 2}, {3, "Grace", 3}, {4, "Heidi", 4},
	}},
	{"sales", []string{"sale_id", "region_id", "product_id", "customer_id", "salesperson_id", "amount", "date"}, [][]any{
		{1, 1, 1, 1, 1, 1000.50, "2023-10-01"},
		{2, 2, 2, 2, 2, 850.00, "2023-10-02"},
		{3, 3, 3, 3, 3, 920.75, "2023-10-03"},
		{4, 4, 1, 4, 4, 760.00, "2023-10-04"},
		{5, 1, 2, 1, 1, 500.00, "2023-10-05"},
	}},
}

// Schema is the DDL given to the SQL model as table documentation.
func Schema() string {
	return strings.Join(salesSchema, ";\n\n") + ";"
}

// Setup drops and recreates the sales tables and loads the sample rows. It
// returns the number of sales records inserted.
func Setup(ctx context.Context, db *sql.DB, driver string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin setup: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range dropOrder {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+t); err != nil {
			return 0, fmt.Errorf("store: drop %s: %w", t, err)
		}
	}
	for _, s := range salesSchema {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return 0, fmt.Errorf("store: create schema: %w", err)
		}
	}

	inserted := 0
	for _, seed := range salesSeed {
		stmt := insertStatement(driver, seed.table, seed.columns)
		for _, row := range seed.rows {
			if _, err := tx.ExecContext(ctx, stmt, row...); err != nil {
				return 0, fmt.Errorf("store: seed %s: %w", seed.table, err)
			}
		}
		if seed.table == "sales" {
			inserted = len(seed.rows)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit setup: %w", err)
	}
	return inserted, nil
}

func insertStatement(driver, table string, columns []string) string {
	ph := make([]string, len(columns))
	for i := range ph {
		if driver == DriverPostgres {
			ph[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ph[i] = "?"
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(ph, ", "))
}
