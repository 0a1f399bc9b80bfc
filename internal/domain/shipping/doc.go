// Package shipping contains the shipping manifest bounded context.
// A ShippingDocument describes one transport of goods: who carries them,
// which driver and truck are used, who sends and receives them, the route
// and the itemized cargo. Documents are append-only once created.
package shipping
