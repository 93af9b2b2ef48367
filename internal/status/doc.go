// Package status drives order status changes from an operator's control
// to the order service.
//
// A Control owns one order. Selecting a value runs it through a Policy,
// shows it immediately through an optimistic Cell and sends it with a
// Transport. Success commits the value, failure rolls it back and emits
// a Notice. While a transition is in flight the control refuses new ones,
// so at most one update per control is ever on the wire.
package status
