package kafka

import "time"

// ItemDispensedEvent is published by the clinic billing system whenever an
// inventory item is dispensed to a patient during an invoiced visit.
type ItemDispensedEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	InvoiceID   uint      `json:"invoice_id"`
	ItemSKU     string    `json:"item_sku"`
	Quantity    int       `json:"quantity"`
	PatientID   uint      `json:"patient_id"`
	DispensedBy string    `json:"dispensed_by"`
	Timestamp   time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeItemDispensed = "item.dispensed"
)

// Kafka topics
const (
	TopicItemDispensed = "item-dispensed"
)
