// the Prism Central implementation of the inventory source. One POST to the
// v3 vms/list endpoint per call; credentials are re-read from the creds file
// on every request so a rotation needs no restart.

package inventory

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/raoulx24/ova-manager/internal/config"
	"github.com/raoulx24/ova-manager/internal/logging"
)

// HTTPClient allows injecting a fake transport in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// PrismClient fetches the VM inventory from Prism Central. It is safe for
// concurrent use; configuration may be swapped at runtime via UpdateConfig.
type PrismClient struct {
	mu  sync.RWMutex
	cfg config.PrismConfig

	client     HTTPClient
	ownsClient bool
	log        logging.Logger
}

// NewPrismClient creates a client for the configured endpoint. A nil
// httpClient defaults to a real one honoring the configured timeout and
// TLS verification setting.
func NewPrismClient(cfg config.PrismConfig, log logging.Logger, httpClient HTTPClient) *PrismClient {
	p := &PrismClient{
		cfg:    cfg,
		client: httpClient,
		log:    log,
	}
	if p.client == nil {
		p.client = newHTTPClient(cfg)
		p.ownsClient = true
	}
	return p
}

// UpdateConfig swaps the Prism configuration. The internal HTTP client is
// rebuilt only when this client owns it.
func (p *PrismClient) UpdateConfig(cfg config.PrismConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ownsClient {
		p.client = newHTTPClient(cfg)
	}
	p.cfg = cfg
}

func (p *PrismClient) config() (config.PrismConfig, HTTPClient) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg, p.client
}

func newHTTPClient(cfg config.PrismConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// Prism Central usually runs on a self-signed cert inside the
		// management network
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}

type listRequest struct {
	Length int `json:"length"`
}

type listResponse struct {
	Entities []entity `json:"entities"`
}

type entity struct {
	Metadata struct {
		UUID             string `json:"uuid"`
		ProjectReference struct {
			Name string `json:"name"`
		} `json:"project_reference"`
	} `json:"metadata"`
	Status struct {
		Name             string `json:"name"`
		Description      string `json:"description"`
		ClusterReference struct {
			Name string `json:"name"`
		} `json:"cluster_reference"`
		Resources struct {
			PowerState        string `json:"power_state"`
			MemorySizeMiB     int64  `json:"memory_size_mib"`
			NumVCPUsPerSocket int    `json:"num_vcpus_per_socket"`
			NumSockets        int    `json:"num_sockets"`
		} `json:"resources"`
	} `json:"status"`
}

// ListVMs fetches and normalizes the inventory: VMs without a project or in
// the excluded project are dropped, the rest come back sorted by project
// then name.
func (p *PrismClient) ListVMs(ctx context.Context) ([]VM, error) {
	cfg, client := p.config()

	creds, err := LoadCredentials(cfg.CredsFile)
	if err != nil {
		return nil, fmt.Errorf("loading prism credentials: %w", err)
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = creds.Prism
	}
	if endpoint == "" {
		return nil, errors.New("no prism endpoint configured")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	payload, err := json.Marshal(listRequest{Length: cfg.PageSize})
	if err != nil {
		return nil, fmt.Errorf("encoding vms/list request: %w", err)
	}
	url := strings.TrimSuffix(endpoint, "/") + "/api/nutanix/v3/vms/list"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building vms/list request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(creds.User, creds.Pass)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling prism: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prism returned %s", resp.Status)
	}
	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decoding prism response: %w", err)
	}

	vms := make([]VM, 0, len(list.Entities))
	for _, e := range list.Entities {
		project := e.Metadata.ProjectReference.Name
		if project == "" || project == cfg.ExcludeProject {
			continue
		}
		vms = append(vms, normalize(e, project))
	}
	sort.Slice(vms, func(i, j int) bool {
		if vms[i].Project != vms[j].Project {
			return vms[i].Project < vms[j].Project
		}
		return vms[i].Name < vms[j].Name
	})

	p.log.Debug("fetched vm inventory", "count", len(vms), "raw", len(list.Entities))
	return vms, nil
}

func normalize(e entity, project string) VM {
	vm := VM{
		Name:        e.Status.Name,
		UUID:        e.Metadata.UUID,
		Project:     project,
		PowerState:  e.Status.Resources.PowerState,
		Cluster:     e.Status.ClusterReference.Name,
		Description: e.Status.Description,
		MemoryMB:    e.Status.Resources.MemorySizeMiB,
	}
	if vm.Name == "" {
		vm.Name = "Unknown"
	}
	if vm.PowerState == "" {
		vm.PowerState = "UNKNOWN"
	}
	if vm.Cluster == "" {
		vm.Cluster = "Unknown"
	}
	sockets := e.Status.Resources.NumSockets
	if sockets == 0 {
		sockets = 1
	}
	vm.VCPUs = e.Status.Resources.NumVCPUsPerSocket * sockets
	return vm
}
