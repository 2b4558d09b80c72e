package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/idjaw/netman/core"
)

// resolve maps the {hostname} path segment to the session currently
// open for it.
func (rt *Router) resolve(w http.ResponseWriter, r *http.Request) (string, bool) {
	hostname := chi.URLParam(r, "hostname")
	id, err := rt.manager.LookupByHostname(hostname)
	if err != nil {
		writeError(w, err)
		return "", false
	}
	return id, true
}

func pathInt(w http.ResponseWriter, r *http.Request, key string) (int, bool) {
	raw := chi.URLParam(r, key)
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(w, key+" must be an integer")
		return 0, false
	}
	return n, true
}

func (rt *Router) invoke(w http.ResponseWriter, r *http.Request, fn func(*core.Transactional) error) {
	id, ok := rt.resolve(w, r)
	if !ok {
		return
	}
	if err := rt.manager.Invoke(r.Context(), id, fn); err != nil {
		writeError(w, err)
		return
	}
	writeNoContent(w)
}

func (rt *Router) getVlans(w http.ResponseWriter, r *http.Request) {
	id, ok := rt.resolve(w, r)
	if !ok {
		return
	}
	var out []core.Vlan
	err := rt.manager.Invoke(r.Context(), id, func(d *core.Transactional) error {
		vlans, err := d.GetVlans(r.Context())
		out = vlans
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (rt *Router) getVlan(w http.ResponseWriter, r *http.Request) {
	number, ok := pathInt(w, r, "number")
	if !ok {
		return
	}
	id, ok := rt.resolve(w, r)
	if !ok {
		return
	}
	var out core.Vlan
	err := rt.manager.Invoke(r.Context(), id, func(d *core.Transactional) error {
		v, err := d.GetVlan(r.Context(), number)
		out = v
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type addVlanRequest struct {
	Number int    `json:"number" validate:"required,gte=1,lte=4094"`
	Name   string `json:"name,omitempty"`
}

func (rt *Router) addVlan(w http.ResponseWriter, r *http.Request) {
	var req addVlanRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := rt.validate.Struct(req); err != nil {
		badRequest(w, err.Error())
		return
	}
	id, ok := rt.resolve(w, r)
	if !ok {
		return
	}
	err := rt.manager.Invoke(r.Context(), id, func(d *core.Transactional) error {
		return d.AddVlan(r.Context(), req.Number, req.Name)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nil)
}

func (rt *Router) removeVlan(w http.ResponseWriter, r *http.Request) {
	number, ok := pathInt(w, r, "number")
	if !ok {
		return
	}
	rt.invoke(w, r, func(d *core.Transactional) error { return d.RemoveVlan(r.Context(), number) })
}

func (rt *Router) getInterfaces(w http.ResponseWriter, r *http.Request) {
	id, ok := rt.resolve(w, r)
	if !ok {
		return
	}
	var out []core.Interface
	err := rt.manager.Invoke(r.Context(), id, func(d *core.Transactional) error {
		ifaces, err := d.GetInterfaces(r.Context())
		out = ifaces
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (rt *Router) getInterface(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	id, ok := rt.resolve(w, r)
	if !ok {
		return
	}
	var out core.Interface
	err := rt.manager.Invoke(r.Context(), id, func(d *core.Transactional) error {
		iface, err := d.GetInterface(r.Context(), name)
		out = iface
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (rt *Router) setAccessMode(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rt.invoke(w, r, func(d *core.Transactional) error { return d.SetAccessMode(r.Context(), name) })
}

func (rt *Router) setTrunkMode(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rt.invoke(w, r, func(d *core.Transactional) error { return d.SetTrunkMode(r.Context(), name) })
}

type vlanNumberRequest struct {
	Number int `json:"number" validate:"required,gte=1,lte=4094"`
}

func (rt *Router) setAccessVlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req vlanNumberRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := rt.validate.Struct(req); err != nil {
		badRequest(w, err.Error())
		return
	}
	rt.invoke(w, r, func(d *core.Transactional) error { return d.SetAccessVlan(r.Context(), name, req.Number) })
}

func (rt *Router) removeAccessVlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rt.invoke(w, r, func(d *core.Transactional) error { return d.RemoveAccessVlan(r.Context(), name) })
}

func (rt *Router) configureNativeVlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req vlanNumberRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := rt.validate.Struct(req); err != nil {
		badRequest(w, err.Error())
		return
	}
	rt.invoke(w, r, func(d *core.Transactional) error { return d.ConfigureNativeVlan(r.Context(), name, req.Number) })
}

func (rt *Router) removeNativeVlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rt.invoke(w, r, func(d *core.Transactional) error { return d.RemoveNativeVlan(r.Context(), name) })
}

func (rt *Router) addTrunkVlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req vlanNumberRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := rt.validate.Struct(req); err != nil {
		badRequest(w, err.Error())
		return
	}
	rt.invoke(w, r, func(d *core.Transactional) error { return d.AddTrunkVlan(r.Context(), name, req.Number) })
}

func (rt *Router) removeTrunkVlan(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	number, ok := pathInt(w, r, "number")
	if !ok {
		return
	}
	rt.invoke(w, r, func(d *core.Transactional) error { return d.RemoveTrunkVlan(r.Context(), name, number) })
}

type descriptionRequest struct {
	Text string `json:"text"`
}

func (rt *Router) setDescription(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req descriptionRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	rt.invoke(w, r, func(d *core.Transactional) error { return d.SetInterfaceDescription(r.Context(), name, req.Text) })
}

func (rt *Router) removeDescription(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rt.invoke(w, r, func(d *core.Transactional) error { return d.RemoveInterfaceDescription(r.Context(), name) })
}

type spanningTreeRequest struct {
	Edge bool `json:"edge"`
}

func (rt *Router) editSpanningTree(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req spanningTreeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	rt.invoke(w, r, func(d *core.Transactional) error { return d.EditInterfaceSpanningTree(r.Context(), name, req.Edge) })
}

func (rt *Router) shutdownInterface(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rt.invoke(w, r, func(d *core.Transactional) error { return d.ShutdownInterface(r.Context(), name) })
}

func (rt *Router) openupInterface(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rt.invoke(w, r, func(d *core.Transactional) error { return d.OpenupInterface(r.Context(), name) })
}

type lldpRequest struct {
	Enabled bool `json:"enabled"`
}

func (rt *Router) enableLLDP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req lldpRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	rt.invoke(w, r, func(d *core.Transactional) error { return d.EnableLLDP(r.Context(), name, req.Enabled) })
}

func (rt *Router) removeInterfaceFromBond(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rt.invoke(w, r, func(d *core.Transactional) error { return d.RemoveInterfaceFromBond(r.Context(), name) })
}

func (rt *Router) getBonds(w http.ResponseWriter, r *http.Request) {
	id, ok := rt.resolve(w, r)
	if !ok {
		return
	}
	var out []core.Bond
	err := rt.manager.Invoke(r.Context(), id, func(d *core.Transactional) error {
		bonds, err := d.GetBonds(r.Context())
		out = bonds
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (rt *Router) getBond(w http.ResponseWriter, r *http.Request) {
	number, ok := pathInt(w, r, "number")
	if !ok {
		return
	}
	id, ok := rt.resolve(w, r)
	if !ok {
		return
	}
	var out core.Bond
	err := rt.manager.Invoke(r.Context(), id, func(d *core.Transactional) error {
		b, err := d.GetBond(r.Context(), number)
		out = b
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type addBondRequest struct {
	Number    int    `json:"number" validate:"required,gte=1"`
	LinkSpeed string `json:"link_speed,omitempty"`
}

func (rt *Router) addBond(w http.ResponseWriter, r *http.Request) {
	var req addBondRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := rt.validate.Struct(req); err != nil {
		badRequest(w, err.Error())
		return
	}
	id, ok := rt.resolve(w, r)
	if !ok {
		return
	}
	err := rt.manager.Invoke(r.Context(), id, func(d *core.Transactional) error {
		if err := d.AddBond(r.Context(), req.Number); err != nil {
			return err
		}
		if req.LinkSpeed != "" {
			return d.SetBondLinkSpeed(r.Context(), req.Number, req.LinkSpeed)
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nil)
}

func (rt *Router) removeBond(w http.ResponseWriter, r *http.Request) {
	number, ok := pathInt(w, r, "number")
	if !ok {
		return
	}
	rt.invoke(w, r, func(d *core.Transactional) error { return d.RemoveBond(r.Context(), number) })
}

type addInterfaceToBondRequest struct {
	Interface string `json:"interface" validate:"required"`
}

func (rt *Router) addInterfaceToBond(w http.ResponseWriter, r *http.Request) {
	number, ok := pathInt(w, r, "number")
	if !ok {
		return
	}
	var req addInterfaceToBondRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := rt.validate.Struct(req); err != nil {
		badRequest(w, err.Error())
		return
	}
	rt.invoke(w, r, func(d *core.Transactional) error {
		return d.AddInterfaceToBond(r.Context(), req.Interface, number)
	})
}

// health runs a best-effort reachability probe against the switch
// currently holding an open session for {hostname} (supplemented
// read-only diagnostics surface): gNMI for vendors that speak it,
// SNMP sysUpTime otherwise.
func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	hostname := chi.URLParam(r, "hostname")
	desc, err := rt.manager.Descriptor(hostname)
	if err != nil {
		writeError(w, err)
		return
	}

	if desc.Model == "juniper" {
		h := rt.gnmi.Probe(r.Context(), desc)
		writeJSON(w, http.StatusOK, h)
		return
	}
	h := rt.snmp.Probe(r.Context(), desc)
	writeJSON(w, http.StatusOK, h)
}
