package discovery

import (
	"fmt"
	"log"
	"strconv"

	"github.com/hashicorp/consul/api"

	"quiz-engine-service/internal/config"
)

type ServiceRegistry struct {
	client *api.Client
	cfg    *config.Config
}

func NewServiceRegistry(cfg *config.Config) (*ServiceRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.Consul.Address

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}
	return &ServiceRegistry{client: client, cfg: cfg}, nil
}

func (sr *ServiceRegistry) Register() error {
	port, _ := strconv.Atoi(sr.cfg.Server.Port)

	registration := &api.AgentServiceRegistration{
		ID:      sr.cfg.Server.ServiceID,
		Name:    sr.cfg.Server.ServiceName,
		Port:    port,
		Address: sr.cfg.Server.ServiceAddress,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%s/health", sr.cfg.Server.ServiceAddress, sr.cfg.Server.Port),
			Interval: "10s",
			Timeout:  "5s",
		},
		Tags: []string{"quiz", "attempts", "http"},
		Meta: map[string]string{"protocol": "http"},
	}

	if err := sr.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("consul register: %w", err)
	}
	log.Printf("registered %s with Consul", sr.cfg.Server.ServiceID)
	return nil
}

func (sr *ServiceRegistry) Deregister() {
	if err := sr.client.Agent().ServiceDeregister(sr.cfg.Server.ServiceID); err != nil {
		log.Printf("consul deregister: %v", err)
	}
}
