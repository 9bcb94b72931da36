package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Garment represents a sellable apparel base item (shirt, hoodie, etc.)
type Garment struct {
	ID        int64         `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	BasePrice int64         `db:"base_price" json:"base_price"` // cents
	Images    GarmentImages `db:"images" json:"images"`
	Colors    GarmentColors `db:"colors" json:"colors"`
	Sizes     GarmentSizes  `db:"sizes" json:"sizes"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// GarmentImage is one view of the garment mockup (front, back, ...).
// Source rasters are neutral white-base mockups with shading baked in.
type GarmentImage struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// GarmentColor is a color option offered for a garment
type GarmentColor struct {
	Name      string `json:"name"`
	HexColor  string `json:"hex_color"`
	Available bool   `json:"available"`
}

type (
	// GarmentImages is the ordered image list, stored as JSONB
	GarmentImages []GarmentImage
	// GarmentColors is the color option list, stored as JSONB
	GarmentColors []GarmentColor
	// GarmentSizes is the garment size list (S, M, L, ...), stored as JSONB
	GarmentSizes []string
)

func (g GarmentImages) Value() (driver.Value, error) { return json.Marshal(g) }
func (g *GarmentImages) Scan(src interface{}) error  { return scanJSON(src, g) }

func (g GarmentColors) Value() (driver.Value, error) { return json.Marshal(g) }
func (g *GarmentColors) Scan(src interface{}) error  { return scanJSON(src, g) }

func (g GarmentSizes) Value() (driver.Value, error) { return json.Marshal(g) }
func (g *GarmentSizes) Scan(src interface{}) error  { return scanJSON(src, g) }

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported scan type %T", src)
	}
}

// PrintDPI is the assumed native resolution when deriving inches from pixels
const PrintDPI = 300

// DesignAsset is the customer's uploaded or generated artwork.
// Pixel dimensions feed the real-world size readout at 300 DPI; they never
// affect pricing.
type DesignAsset struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	WidthPx  int    `json:"width_px"`
	HeightPx int    `json:"height_px"`
}

// WidthInches returns the asset's native print width at 300 DPI
func (d *DesignAsset) WidthInches() float64 { return float64(d.WidthPx) / PrintDPI }

// HeightInches returns the asset's native print height at 300 DPI
func (d *DesignAsset) HeightInches() float64 { return float64(d.HeightPx) / PrintDPI }

// ProductConfiguration is the terminal artifact handed to the cart when the
// customer confirms a customized garment. Immutable once created.
type ProductConfiguration struct {
	ID               string    `json:"id"`
	GarmentID        int64     `json:"garment_id"`
	GarmentName      string    `json:"garment_name"`
	GarmentBasePrice int64     `json:"garment_base_price"` // cents
	ColorName        string    `json:"color_name"`
	ColorHex         string    `json:"color_hex"`
	GarmentSize      string    `json:"garment_size"`
	GarmentQuantity  int       `json:"garment_quantity"`
	DesignAssetID    string    `json:"design_asset_id,omitempty"`
	PrintSize        string    `json:"print_size"`
	Placement        string    `json:"placement"`
	PositionX        float64   `json:"position_x,omitempty"` // custom placement only, percent
	PositionY        float64   `json:"position_y,omitempty"`
	Scale            float64   `json:"scale,omitempty"`
	TransferQuantity int       `json:"transfer_quantity"`
	TransferUnit     int64     `json:"transfer_unit"`  // cents
	TransferTotal    int64     `json:"transfer_total"` // cents
	CreatedAt        time.Time `json:"created_at"`
}

// GrandTotal is the transfer total plus garment base price times garment quantity
func (c *ProductConfiguration) GrandTotal() int64 {
	return c.TransferTotal + c.GarmentBasePrice*int64(c.GarmentQuantity)
}

// Order represents a customer order
type Order struct {
	ID            int64     `db:"id" json:"id"`
	CustomerName  string    `db:"customer_name" json:"customer_name"`
	CustomerEmail string    `db:"customer_email" json:"customer_email"`
	Status        string    `db:"status" json:"status"`
	PaymentStatus string    `db:"payment_status" json:"payment_status"`
	TotalAmount   int64     `db:"total_amount" json:"total_amount"` // cents
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem is one configured garment line within an order
type OrderItem struct {
	ID               int64  `db:"id" json:"id"`
	OrderID          int64  `db:"order_id" json:"order_id"`
	GarmentID        int64  `db:"garment_id" json:"garment_id"`
	GarmentName      string `db:"garment_name" json:"garment_name"`
	ColorName        string `db:"color_name" json:"color_name"`
	GarmentSize      string `db:"garment_size" json:"garment_size"`
	Quantity         int    `db:"quantity" json:"quantity"`
	UnitPrice        int64  `db:"unit_price" json:"unit_price"` // garment base, cents
	PrintSize        string `db:"print_size" json:"print_size"`
	Placement        string `db:"placement" json:"placement"`
	TransferQuantity int    `db:"transfer_quantity" json:"transfer_quantity"`
	TransferTotal    int64  `db:"transfer_total" json:"transfer_total"` // cents
}

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusProcessing = "processing"
	OrderStatusPrinted    = "printed"
	OrderStatusPressed    = "pressed"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
	OrderStatusFailed     = "failed"
)

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
	PaymentStatusFailed   = "failed"
)

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusPrinted, OrderStatusPressed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded,
		OrderStatusFailed:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is a known payment status
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

// ProcessedEvent for idempotency
type ProcessedEvent struct {
	EventID     string    `db:"event_id"`
	EventType   string    `db:"event_type"`
	ProcessedAt time.Time `db:"processed_at"`
}
