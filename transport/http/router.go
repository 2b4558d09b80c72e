package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/idjaw/netman/session"
	"github.com/idjaw/netman/transport/diagnostics"
)

// Router builds Netman's HTTP surface: session lifecycle routes
// under /switches-sessions, semantic vlan/interface/bond routes under
// /switches/{hostname}, an admin session listing, and the prometheus
// scrape endpoint.
type Router struct {
	manager   *session.Manager
	validate  *validator.Validate
	snmp      diagnostics.SNMPProbe
	gnmi      diagnostics.GNMIProbe
}

// NewRouter returns an http.Handler wired to manager.
func NewRouter(manager *session.Manager) http.Handler {
	rt := &Router{
		manager:  manager,
		validate: validator.New(),
		snmp:     diagnostics.SNMPProbe{},
		gnmi:     diagnostics.GNMIProbe{},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/switches-sessions", func(r chi.Router) {
		r.Get("/", rt.listSessions)
		r.Post("/{id}", rt.openSession)
		r.Post("/{id}/actions", rt.sessionAction)
		r.Delete("/{id}", rt.closeSession)
	})

	r.Route("/switches/{hostname}", func(r chi.Router) {
		r.Get("/vlans", rt.getVlans)
		r.Get("/vlans/{number}", rt.getVlan)
		r.Post("/vlans", rt.addVlan)
		r.Delete("/vlans/{number}", rt.removeVlan)

		r.Get("/interfaces", rt.getInterfaces)
		r.Get("/interfaces/{name}", rt.getInterface)
		r.Post("/interfaces/{name}/access-mode", rt.setAccessMode)
		r.Post("/interfaces/{name}/trunk-mode", rt.setTrunkMode)
		r.Post("/interfaces/{name}/access-vlan", rt.setAccessVlan)
		r.Delete("/interfaces/{name}/access-vlan", rt.removeAccessVlan)
		r.Post("/interfaces/{name}/native-vlan", rt.configureNativeVlan)
		r.Delete("/interfaces/{name}/native-vlan", rt.removeNativeVlan)
		r.Post("/interfaces/{name}/trunk-vlans", rt.addTrunkVlan)
		r.Delete("/interfaces/{name}/trunk-vlans/{number}", rt.removeTrunkVlan)
		r.Post("/interfaces/{name}/description", rt.setDescription)
		r.Delete("/interfaces/{name}/description", rt.removeDescription)
		r.Post("/interfaces/{name}/spanning-tree", rt.editSpanningTree)
		r.Post("/interfaces/{name}/shutdown", rt.shutdownInterface)
		r.Post("/interfaces/{name}/enable", rt.openupInterface)
		r.Post("/interfaces/{name}/lldp", rt.enableLLDP)
		r.Delete("/interfaces/{name}/bond-membership", rt.removeInterfaceFromBond)

		r.Get("/bonds", rt.getBonds)
		r.Get("/bonds/{number}", rt.getBond)
		r.Post("/bonds", rt.addBond)
		r.Delete("/bonds/{number}", rt.removeBond)
		r.Post("/bonds/{number}/members", rt.addInterfaceToBond)

		r.Get("/diagnostics/health", rt.health)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
