package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"
)

// SeedStats reports how many rows were inserted per table.
type SeedStats struct {
	Customers     int
	Products      int
	Orders        int
	OrderItems    int
	InventoryLogs int
}

const sampleSchema = `
CREATE TABLE customers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL,
	city TEXT,
	country TEXT NOT NULL,
	registration_date DATE NOT NULL,
	is_active BOOLEAN DEFAULT 1,
	credit_limit REAL DEFAULT 1000.00
);

CREATE TABLE products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	price REAL NOT NULL,
	stock_quantity INTEGER NOT NULL DEFAULT 0,
	supplier TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id INTEGER NOT NULL,
	order_date DATETIME NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	total_amount REAL NOT NULL,
	shipping_address TEXT,
	notes TEXT,
	FOREIGN KEY (customer_id) REFERENCES customers(id)
);

CREATE TABLE order_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id INTEGER NOT NULL,
	product_id INTEGER NOT NULL,
	quantity INTEGER NOT NULL,
	unit_price REAL NOT NULL,
	discount REAL DEFAULT 0,
	FOREIGN KEY (order_id) REFERENCES orders(id),
	FOREIGN KEY (product_id) REFERENCES products(id)
);

CREATE TABLE inventory_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL,
	change_type TEXT NOT NULL,
	quantity_change INTEGER NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
	reason TEXT,
	FOREIGN KEY (product_id) REFERENCES products(id)
);
`

type seedCustomer struct {
	name, email, city, country, registered string
	active                                 int
	creditLimit                            float64
}

type seedProduct struct {
	name, category, supplier string
	price                    float64
	stock                    int
}

var seedCustomers = []seedCustomer{
	{"John Smith", "john.smith@email.com", "New York", "USA", "2023-01-15", 1, 5000.00},
	{"Emma Wilson", "emma.w@email.com", "London", "UK", "2023-02-20", 1, 3000.00},
	{"Carlos García", "carlos.g@email.com", "Madrid", "Spain", "2023-03-10", 1, 2500.00},
	{"Yuki Tanaka", "yuki.t@email.com", "Tokyo", "Japan", "2023-04-05", 1, 4000.00},
	{"Marie Dubois", "marie.d@email.com", "Paris", "France", "2023-05-12", 1, 3500.00},
	{"Hans Mueller", "hans.m@email.com", "Berlin", "Germany", "2023-06-18", 1, 2800.00},
	{"Priya Patel", "priya.p@email.com", "Mumbai", "India", "2023-07-22", 1, 2000.00},
	{"Lucas Santos", "lucas.s@email.com", "São Paulo", "Brazil", "2023-08-30", 0, 1500.00},
	{"Sofia Rossi", "sofia.r@email.com", "Rome", "Italy", "2023-09-14", 1, 3200.00},
	{"Ahmed Hassan", "ahmed.h@email.com", "Cairo", "Egypt", "2023-10-08", 1, 1800.00},
	{"Anna Kowalski", "anna.k@email.com", "Warsaw", "Poland", "2023-11-25", 1, 2200.00},
	{"Chen Wei", "chen.w@email.com", "Shanghai", "China", "2023-12-03", 1, 4500.00},
	{"Olivia Brown", "olivia.b@email.com", "Sydney", "Australia", "2024-01-10", 1, 3800.00},
	{"Mohammed Ali", "mo.ali@email.com", "Dubai", "UAE", "2024-02-14", 1, 6000.00},
	{"Emily Davis", "emily.d@email.com", "Toronto", "Canada", "2024-03-20", 1, 2900.00},
}

var seedProducts = []seedProduct{
	{"Laptop Pro 15", "Electronics", "TechCorp", 1299.99, 50},
	{"Wireless Mouse", "Electronics", "TechCorp", 29.99, 200},
	{"USB-C Hub", "Electronics", "ConnectPlus", 49.99, 150},
	{"Mechanical Keyboard", "Electronics", "KeyMaster", 89.99, 100},
	{"Monitor 27inch", "Electronics", "DisplayTech", 349.99, 30},
	{"Desk Chair Ergo", "Furniture", "ComfortCo", 299.99, 40},
	{"Standing Desk", "Furniture", "ComfortCo", 599.99, 25},
	{"Desk Lamp LED", "Furniture", "LightUp", 39.99, 80},
	{"Notebook Set", "Office", "PaperWorld", 12.99, 500},
	{"Pen Pack Premium", "Office", "PaperWorld", 8.99, 300},
	{"Webcam HD", "Electronics", "TechCorp", 79.99, 120},
	{"Headphones Noise-Cancel", "Electronics", "AudioPro", 199.99, 60},
	{"Phone Stand", "Accessories", "HoldIt", 19.99, 250},
	{"Cable Organizer", "Accessories", "HoldIt", 14.99, 180},
	{"Portable Charger", "Electronics", "PowerUp", 44.99, 200},
}

var orderStatuses = []string{"pending", "processing", "shipped", "delivered", "cancelled"}
var orderStatusWeights = []int{5, 10, 15, 65, 5}

// Seed creates and populates the sample e-commerce database at path.
// When overwrite is false and the file already exists, Seed is a no-op.
// Order data is generated from a fixed random seed so repeated runs
// produce the same dataset.
func Seed(ctx context.Context, path string, overwrite bool) (*SeedStats, error) {
	if path != ":memory:" {
		if info, err := os.Stat(path); err == nil {
			// An empty file counts as no database yet.
			if info.Size() > 0 && !overwrite {
				return nil, nil
			}
			if err := os.Remove(path); err != nil {
				return nil, fmt.Errorf("remove existing database: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat database: %w", err)
		}

		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	return SeedDB(ctx, db)
}

// SeedDB populates an already-open database. Exposed so tests can seed an
// in-memory connection directly.
func SeedDB(ctx context.Context, db *sql.DB) (*SeedStats, error) {
	if _, err := db.ExecContext(ctx, sampleSchema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stats := &SeedStats{}

	for _, c := range seedCustomers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO customers (name, email, city, country, registration_date, is_active, credit_limit)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.name, c.email, c.city, c.country, c.registered, c.active, c.creditLimit)
		if err != nil {
			return nil, fmt.Errorf("insert customer: %w", err)
		}
		stats.Customers++
	}

	for _, p := range seedProducts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (name, category, price, stock_quantity, supplier)
			VALUES (?, ?, ?, ?, ?)`,
			p.name, p.category, p.price, p.stock, p.supplier)
		if err != nil {
			return nil, fmt.Errorf("insert product: %w", err)
		}
		stats.Products++
	}

	// Fixed seed keeps the generated dataset stable across runs.
	rng := rand.New(rand.NewSource(42))
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for orderNum := 1; orderNum <= 100; orderNum++ {
		customerID := rng.Intn(len(seedCustomers)) + 1
		orderDate := baseDate.Add(time.Duration(rng.Intn(300*24)) * time.Hour)
		status := weightedStatus(rng)

		itemCount := rng.Intn(5) + 1
		total := 0.0
		type pendingItem struct {
			productID, quantity int
			unitPrice, discount float64
		}
		items := make([]pendingItem, 0, itemCount)
		for range itemCount {
			productID := rng.Intn(len(seedProducts)) + 1
			quantity := rng.Intn(3) + 1
			unitPrice := seedProducts[productID-1].price
			discount := []float64{0, 0, 0, 5, 10, 15}[rng.Intn(6)]
			total += float64(quantity) * unitPrice * (1 - discount/100)
			items = append(items, pendingItem{productID, quantity, unitPrice, discount})
		}

		var notes *string
		if rng.Float64() <= 0.2 {
			rush := "Rush delivery requested"
			notes = &rush
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO orders (customer_id, order_date, status, total_amount, shipping_address, notes)
			VALUES (?, ?, ?, ?, ?, ?)`,
			customerID, orderDate.Format("2006-01-02 15:04:05"), status,
			float64(int(total*100))/100, fmt.Sprintf("Address %d, City", orderNum), notes)
		if err != nil {
			return nil, fmt.Errorf("insert order: %w", err)
		}
		orderID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("order id: %w", err)
		}
		stats.Orders++

		for _, item := range items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, product_id, quantity, unit_price, discount)
				VALUES (?, ?, ?, ?, ?)`,
				orderID, item.productID, item.quantity, item.unitPrice, item.discount)
			if err != nil {
				return nil, fmt.Errorf("insert order item: %w", err)
			}
			stats.OrderItems++
		}
	}

	logReasons := map[string]string{
		"restock":    "Supplier delivery",
		"sale":       "Customer purchase",
		"adjustment": "Inventory count correction",
		"return":     "Customer return - item defective",
	}
	changeTypes := []string{"restock", "sale", "adjustment", "return"}

	for productID := 1; productID <= len(seedProducts); productID++ {
		entries := rng.Intn(6) + 3
		for range entries {
			changeType := changeTypes[rng.Intn(len(changeTypes))]
			var qty int
			switch changeType {
			case "restock":
				qty = rng.Intn(41) + 10
			case "sale":
				qty = -(rng.Intn(5) + 1)
			case "return":
				qty = rng.Intn(3) + 1
			default:
				qty = rng.Intn(11) - 5
			}
			logDate := baseDate.Add(time.Duration(rng.Intn(300*24)) * time.Hour)

			_, err := tx.ExecContext(ctx, `
				INSERT INTO inventory_logs (product_id, change_type, quantity_change, timestamp, reason)
				VALUES (?, ?, ?, ?, ?)`,
				productID, changeType, qty, logDate.Format("2006-01-02 15:04:05"), logReasons[changeType])
			if err != nil {
				return nil, fmt.Errorf("insert inventory log: %w", err)
			}
			stats.InventoryLogs++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func weightedStatus(rng *rand.Rand) string {
	total := 0
	for _, w := range orderStatusWeights {
		total += w
	}
	pick := rng.Intn(total)
	for i, w := range orderStatusWeights {
		if pick < w {
			return orderStatuses[i]
		}
		pick -= w
	}
	return orderStatuses[len(orderStatuses)-1]
}
