package esodbc

import (
	"context"
	"database/sql"
	"database/sql/driver"
)

func init() {
	sql.Register("esodbc", &Driver{})
}

// Driver implements the database/sql/driver.Driver interface.
type Driver struct{}

// Open opens a new connection to an Elasticsearch SQL endpoint. name is a
// DSN string, e.g.:
//   - "Server=https://localhost:9200;UID=elastic;PWD=changeme"
//   - "Endpoint=https://es.example.com:9200;ApiKey=...;Packing=cbor"
func (d *Driver) Open(name string) (driver.Conn, error) {
	connector, err := d.OpenConnector(name)
	if err != nil {
		return nil, err
	}
	return connector.Connect(context.Background())
}

// OpenConnector returns a new Connector for the given connection string,
// implementing driver.DriverContext for connection pooling efficiency.
func (d *Driver) OpenConnector(name string) (driver.Connector, error) {
	cfg, err := ParseDSN(name)
	if err != nil {
		return nil, err
	}
	return &Connector{cfg: cfg, driver: d}, nil
}

// Ensure Driver implements the required interfaces.
var (
	_ driver.Driver        = (*Driver)(nil)
	_ driver.DriverContext = (*Driver)(nil)
)
