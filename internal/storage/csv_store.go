// internal/storage/csv_store.go
package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/restockd/restockd/internal/domain"
)

const dateLayout = time.RFC3339

var orderItemsHeader = []string{"order_id", "purchase_date", "sku", "quantity"}

// OrderItemStore keeps the raw order item archive in a flat CSV file. New
// items are appended; the file is never rewritten, matching an append-only
// sync that skips orders it has already seen.
type OrderItemStore struct {
	path string
}

func NewOrderItemStore(path string) *OrderItemStore {
	return &OrderItemStore{path: path}
}

// Load reads all order items from the CSV archive. A missing file is an empty
// archive, not an error.
func (s *OrderItemStore) Load() ([]domain.OrderItem, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}

	var items []domain.OrderItem
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.path, err)
		}
		if len(record) < 4 {
			continue
		}

		date, err := time.Parse(dateLayout, record[1])
		if err != nil {
			return nil, fmt.Errorf("parse purchase date %q in %s: %w", record[1], s.path, err)
		}
		qty, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, fmt.Errorf("parse quantity %q in %s: %w", record[3], s.path, err)
		}

		items = append(items, domain.OrderItem{
			OrderID:      record[0],
			PurchaseDate: date,
			SKU:          record[2],
			Quantity:     qty,
		})
	}

	return items, nil
}

// KnownOrderIDs returns the set of order ids already present in the archive.
func (s *OrderItemStore) KnownOrderIDs() (map[string]struct{}, error) {
	items, err := s.Load()
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(items))
	for _, item := range items {
		ids[item.OrderID] = struct{}{}
	}
	return ids, nil
}

// Append adds items to the archive, creating the file with a header row first
// when it does not exist yet.
func (s *OrderItemStore) Append(items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", s.path, err)
	}

	_, statErr := os.Stat(s.path)
	isNew := os.IsNotExist(statErr)

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if isNew {
		if err := writer.Write(orderItemsHeader); err != nil {
			return err
		}
	}

	for _, item := range items {
		record := []string{
			item.OrderID,
			item.PurchaseDate.UTC().Format(dateLayout),
			item.SKU,
			strconv.Itoa(item.Quantity),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

var inventoryHeader = []string{"sku", "quantity"}

// InventoryLevelStore keeps the latest inventory snapshot in a CSV file,
// rewritten whole on every sync since only the current levels matter.
type InventoryLevelStore struct {
	path string
}

func NewInventoryLevelStore(path string) *InventoryLevelStore {
	return &InventoryLevelStore{path: path}
}

// Write replaces the snapshot with the given levels.
func (s *InventoryLevelStore) Write(levels []domain.InventoryLevel) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", s.path, err)
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(inventoryHeader); err != nil {
		return err
	}
	for _, level := range levels {
		if err := writer.Write([]string{level.SKU, strconv.Itoa(level.Quantity)}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Load reads the current snapshot. A missing file is an empty snapshot.
func (s *InventoryLevelStore) Load() ([]domain.InventoryLevel, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}

	var levels []domain.InventoryLevel
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.path, err)
		}
		if len(record) < 2 {
			continue
		}

		qty, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("parse quantity %q in %s: %w", record[1], s.path, err)
		}
		levels = append(levels, domain.InventoryLevel{SKU: record[0], Quantity: qty})
	}

	return levels, nil
}
