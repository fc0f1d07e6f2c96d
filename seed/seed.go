// Package seed loads the placeholder dataset into a store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"ledgerdash/query"
)

//go:embed placeholder.yaml
var placeholderYAML []byte

// PasswordCost is the bcrypt cost for seeded users.
const PasswordCost = 10

type User struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type Customer struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	ImageURL string `yaml:"image_url"`
}

// Invoice amounts are in cents.
type Invoice struct {
	ID         string `yaml:"id"`
	CustomerID string `yaml:"customer_id"`
	Amount     int64  `yaml:"amount"`
	Status     string `yaml:"status"`
	Date       string `yaml:"date"`
}

type Revenue struct {
	Month   string `yaml:"month"`
	Revenue int64  `yaml:"revenue"`
}

type Data struct {
	Users     []User     `yaml:"users"`
	Customers []Customer `yaml:"customers"`
	Invoices  []Invoice  `yaml:"invoices"`
	Revenue   []Revenue  `yaml:"revenue"`
}

// Rows is the number of rows Seed writes for d.
func (d *Data) Rows() int {
	return len(d.Users) + len(d.Customers) + len(d.Invoices) + len(d.Revenue)
}

// Placeholder returns the embedded dataset.
func Placeholder() (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(placeholderYAML, &d); err != nil {
		return nil, fmt.Errorf("failed to parse placeholder data: %w", err)
	}
	return &d, nil
}

type Options struct {
	// Cost overrides PasswordCost.
	Cost int
	// Progress is called after every row with the rows written so far.
	Progress func(done, total int)
}

// Seed inserts d through c, skipping rows whose key already exists. The four
// tables are filled concurrently. Statements use Postgres syntax, so c must
// rewrite for MySQL stores.
func Seed(ctx context.Context, c *query.Client, d *Data, opts Options) error {
	cost := opts.Cost
	if cost == 0 {
		cost = PasswordCost
	}

	var (
		mu    sync.Mutex
		done  int
		total = d.Rows()
	)
	step := func() {
		if opts.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		opts.Progress(done, total)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for _, u := range d.Users {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
			if err != nil {
				return err
			}
			if _, err := c.Query(`
				INSERT INTO users (id, name, email, password)
				VALUES (${}, ${}, ${}, ${})
				ON CONFLICT (id) DO NOTHING`, u.ID, u.Name, u.Email, string(hash)).Run(ctx); err != nil {
				return fmt.Errorf("seed user %s: %w", u.ID, err)
			}
			step()
		}
		return nil
	})
	g.Go(func() error {
		for _, cu := range d.Customers {
			if _, err := c.Query(`
				INSERT INTO customers (id, name, email, image_url)
				VALUES (${}, ${}, ${}, ${})
				ON CONFLICT (id) DO NOTHING`, cu.ID, cu.Name, cu.Email, cu.ImageURL).Run(ctx); err != nil {
				return fmt.Errorf("seed customer %s: %w", cu.ID, err)
			}
			step()
		}
		return nil
	})
	g.Go(func() error {
		for _, inv := range d.Invoices {
			if _, err := c.Query(`
				INSERT INTO invoices (id, customer_id, amount, status, date)
				VALUES (${}, ${}, ${}, ${}, ${})
				ON CONFLICT (id) DO NOTHING`, inv.ID, inv.CustomerID, inv.Amount, inv.Status, inv.Date).Run(ctx); err != nil {
				return fmt.Errorf("seed invoice %s: %w", inv.ID, err)
			}
			step()
		}
		return nil
	})
	g.Go(func() error {
		for _, r := range d.Revenue {
			if _, err := c.Query(`
				INSERT INTO revenue (month, revenue)
				VALUES (${}, ${})
				ON CONFLICT (month) DO NOTHING`, r.Month, r.Revenue).Run(ctx); err != nil {
				return fmt.Errorf("seed revenue %s: %w", r.Month, err)
			}
			step()
		}
		return nil
	})
	return g.Wait()
}
