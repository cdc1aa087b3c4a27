package common

import "testing"

func TestPortsDerivesFromNodeIdSuffix(t *testing.T) {
	tests := []struct {
		nodeId       string
		wantProtocol int
		wantControl  int
	}{
		{"r1", 10001, 20001},
		{"r12", 10012, 20012},
		{"pc5", 10005, 20005},
	}

	for _, tt := range tests {
		protocolPort, controlPort, err := Ports(tt.nodeId)
		if err != nil {
			t.Fatalf("Ports(%q): %v", tt.nodeId, err)
		}
		if protocolPort != tt.wantProtocol || controlPort != tt.wantControl {
			t.Fatalf("Ports(%q) = %d, %d; want %d, %d", tt.nodeId, protocolPort, controlPort, tt.wantProtocol, tt.wantControl)
		}
	}
}

func TestPortsRejectsMalformedNodeId(t *testing.T) {
	for _, bad := range []string{"", "123", "router"} {
		if _, _, err := Ports(bad); err == nil {
			t.Fatalf("Ports(%q) should have failed to parse", bad)
		}
	}
}
