// Package domain contains the account entities shared by the service, store
// and API layers. It has no dependencies on infrastructure.
package domain
