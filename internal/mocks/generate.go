// Package mocks provides gomock implementations of the console's ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	gw := mocks.NewMockGateway(ctrl)
//	gw.EXPECT().Do(gomock.Any(), gomock.Any()).Return(resp, nil)
package mocks

// Generate mock for the Gateway interface (remote RFP API).
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=gateway_mock.go github.com/target/rfp-console/internal/ports Gateway

// Generate mocks for Storage and StorageProvider (session persistence).
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=storage_mock.go github.com/target/rfp-console/internal/ports Storage,StorageProvider
