// Package mocks provides gomock implementations of the ports used by the
// directory and login flows.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks.
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	client := mocks.NewMockDirectoryClient(ctrl)
//	client.EXPECT().ListUsers(gomock.Any(), 50).Return(users, nil)
package mocks

// Generate mocks for the directory ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=directory_mock.go github.com/target/mmk-sso/internal/ports DirectoryClient,DirectoryCache

// Generate mocks for the login ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=code_ledger_mock.go github.com/target/mmk-sso/internal/ports CodeLedger
