package esodbc

import "testing"

func TestDriver_OpenConnector(t *testing.T) {
	d := &Driver{}
	connector, err := d.OpenConnector("Server=http://localhost:9200")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := connector.(*Connector)
	if !ok {
		t.Fatalf("expected *Connector, got %T", connector)
	}
	if c.cfg.Endpoint != "http://localhost:9200" {
		t.Errorf("unexpected endpoint: %q", c.cfg.Endpoint)
	}
	if c.driver != d {
		t.Error("expected Connector to reference the originating Driver")
	}
}

func TestDriver_OpenConnector_InvalidDSN(t *testing.T) {
	d := &Driver{}
	if _, err := d.OpenConnector("UID=alice"); err == nil {
		t.Fatal("expected error for a DSN missing Server/Endpoint")
	}
}
