// Package cisco implements core.Driver against IOS-style switches over
// an interactive SSH CLI session (google/goexpect), adapted to
// Netman's NETCONF-shaped transaction envelope: IOS has no candidate
// datastore, so StartTransaction enters config mode and
// CommitTransaction/RollbackTransaction map to "end" /
// "configuration discard" against the running configuration.
package cisco

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/idjaw/netman/core"
	"golang.org/x/crypto/ssh"
)

// Driver implements core.Driver against a single IOS switch.
type Driver struct {
	desc core.SwitchDescriptor
	log  *slog.Logger

	mu     sync.Mutex
	client *ssh.Client
	sess   *session
}

// NewDriver builds a Driver bound to desc. Connect performs the SSH
// dial and CLI session negotiation.
func NewDriver(desc core.SwitchDescriptor) core.Driver {
	return &Driver{
		desc: desc,
		log:  slog.Default().With("model", desc.Model, "hostname", desc.Hostname),
	}
}

// Factory satisfies core.Factory for registration with core.Registry.
func Factory(desc core.SwitchDescriptor) core.Driver { return NewDriver(desc) }

func (d *Driver) Connect(ctx context.Context) error {
	cfg := &ssh.ClientConfig{
		User: d.desc.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(d.desc.Password),
			ssh.KeyboardInteractive(func(user, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = d.desc.Password
				}
				return answers, nil
			}),
		},
		Timeout:         30 * time.Second,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
	}
	port := d.desc.Port
	if port == 0 {
		port = 22
	}
	client, err := ssh.Dial("tcp", fmt.Sprintf("%s:%d", d.desc.Hostname, port), cfg)
	if err != nil {
		return core.New(core.KindUnavailable, "ssh dial failed: "+err.Error())
	}
	d.client = client
	d.log.Info("connected")
	return nil
}

// Disconnect is infallible by construction: failures to close the CLI
// session or the underlying TCP connection are logged, never returned.
func (d *Driver) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sess != nil {
		if err := d.sess.close(); err != nil {
			d.log.Warn("closing cli session", "err", err)
		}
		d.sess = nil
	}
	if d.client != nil {
		if err := d.client.Close(); err != nil {
			d.log.Warn("closing ssh client", "err", err)
		}
		d.client = nil
	}
	d.log.Info("disconnected")
	return nil
}

func (d *Driver) StartTransaction(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, err := newSession(d.client, 30*time.Second)
	if err != nil {
		return core.New(core.KindUnavailable, "enter config mode: "+err.Error())
	}
	d.sess = s
	return nil
}

func (d *Driver) EndTransaction(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sess == nil {
		return nil
	}
	err := d.sess.close()
	d.sess = nil
	if err != nil {
		d.log.Warn("ending transaction", "err", err)
	}
	return nil
}

func (d *Driver) CommitTransaction(ctx context.Context) error {
	return d.exec("end")
}

func (d *Driver) RollbackTransaction(ctx context.Context) error {
	return d.exec("configuration discard")
}

// exec runs a single config-mode command, classifying a handful of
// well-known IOS rejection messages into Netman's error taxonomy.
func (d *Driver) exec(cmd string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sess == nil {
		return core.New(core.KindOperationNotCompleted, "no transaction in progress")
	}
	out, err := d.sess.execute(cmd)
	if err != nil {
		return core.New(core.KindUnavailable, err.Error())
	}
	return classifyIOSOutput(out)
}

var iosErrorPatterns = []struct {
	substr string
	kind   core.Kind
}{
	{"VLAN id is out of range", core.KindBadVlanNumber},
	{"not found", core.KindUnknownInterface},
	{"Command rejected", core.KindOperationNotCompleted},
}

func classifyIOSOutput(out string) error {
	for _, p := range iosErrorPatterns {
		if strings.Contains(out, p.substr) {
			return core.Wrap(p.kind, out, out)
		}
	}
	return nil
}

func (d *Driver) showRunning() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	tmp, err := newSession(d.client, 30*time.Second)
	if err != nil {
		return "", core.New(core.KindUnavailable, err.Error())
	}
	defer tmp.close()
	tmp.execute("end")
	out, err := tmp.execute("show running-config")
	if err != nil {
		return "", core.New(core.KindUnavailable, err.Error())
	}
	return out, nil
}

var vlanLineRE = regexp.MustCompile(`(?m)^vlan (\d+)\s*$\n name (\S+)`)

func (d *Driver) GetVlans(ctx context.Context) ([]core.Vlan, error) {
	raw, err := d.showRunning()
	if err != nil {
		return nil, err
	}
	var out []core.Vlan
	for _, m := range vlanLineRE.FindAllStringSubmatch(raw, -1) {
		n, _ := strconv.Atoi(m[1])
		out = append(out, core.Vlan{Number: n, Name: m[2]})
	}
	return out, nil
}

func (d *Driver) GetVlan(ctx context.Context, number int) (core.Vlan, error) {
	vlans, err := d.GetVlans(ctx)
	if err != nil {
		return core.Vlan{}, err
	}
	for _, v := range vlans {
		if v.Number == number {
			return v, nil
		}
	}
	return core.Vlan{}, core.New(core.KindUnknownVlan, fmt.Sprintf("vlan %d not found", number))
}

func (d *Driver) GetInterfaces(ctx context.Context) ([]core.Interface, error) {
	return nil, core.New(core.KindOperationNotCompleted, "bulk interface listing not supported over CLI transport")
}

func (d *Driver) GetInterface(ctx context.Context, name string) (core.Interface, error) {
	raw, err := d.showRunning()
	if err != nil {
		return core.Interface{}, err
	}
	section := interfaceSection(raw, name)
	if section == "" {
		return core.Interface{}, core.New(core.KindUnknownInterface, "interface "+name+" not found")
	}
	return parseInterfaceSection(name, section), nil
}

func interfaceSection(raw, name string) string {
	marker := "interface " + name
	idx := strings.Index(raw, marker)
	if idx < 0 {
		return ""
	}
	rest := raw[idx:]
	end := strings.Index(rest, "\n!")
	if end < 0 {
		return rest
	}
	return rest[:end]
}

var (
	accessVlanRE = regexp.MustCompile(`switchport access vlan (\d+)`)
	trunkVlanRE  = regexp.MustCompile(`switchport trunk allowed vlan (\S+)`)
	nativeRE     = regexp.MustCompile(`switchport trunk native vlan (\d+)`)
	descRE       = regexp.MustCompile(`description (.+)`)
)

func parseInterfaceSection(name, section string) core.Interface {
	iface := core.Interface{Name: name}
	iface.Shutdown = strings.Contains(section, "\n shutdown")
	if m := descRE.FindStringSubmatch(section); m != nil {
		iface.Description = strings.TrimSpace(m[1])
	}
	switch {
	case strings.Contains(section, "switchport mode access"):
		iface.PortMode = core.PortModeAccess
		if m := accessVlanRE.FindStringSubmatch(section); m != nil {
			iface.AccessVlan, _ = strconv.Atoi(m[1])
		}
	case strings.Contains(section, "switchport mode trunk"):
		iface.PortMode = core.PortModeTrunk
		if m := nativeRE.FindStringSubmatch(section); m != nil {
			iface.TrunkNativeVlan, _ = strconv.Atoi(m[1])
		}
		if m := trunkVlanRE.FindStringSubmatch(section); m != nil {
			for _, tok := range strings.Split(m[1], ",") {
				if n, err := strconv.Atoi(strings.TrimSpace(tok)); err == nil {
					iface.TrunkVlans = append(iface.TrunkVlans, n)
				}
			}
		}
	}
	iface.LLDPEnabled = !strings.Contains(section, "no lldp transmit") && !strings.Contains(section, "no lldp receive")
	iface.SpanningTree.Edge = strings.Contains(section, "spanning-tree portfast")
	return iface
}

func (d *Driver) GetBonds(ctx context.Context) ([]core.Bond, error) {
	return nil, core.New(core.KindOperationNotCompleted, "bulk bond listing not supported over CLI transport")
}

func (d *Driver) GetBond(ctx context.Context, number int) (core.Bond, error) {
	name := core.BondInterfaceName("cisco", number)
	iface, err := d.GetInterface(ctx, name)
	if err != nil {
		return core.Bond{}, core.Wrap(core.KindUnknownBond, fmt.Sprintf("bond %d not found", number), err.Error())
	}
	return core.Bond{Number: number, Interface: iface}, nil
}

func (d *Driver) AddVlan(ctx context.Context, number int, name string) error {
	if name == "" {
		name = fmt.Sprintf("VLAN%d", number)
	}
	return d.exec(fmt.Sprintf("vlan %d\n name %s\nexit", number, name))
}

func (d *Driver) RemoveVlan(ctx context.Context, number int) error {
	return d.exec(fmt.Sprintf("no vlan %d", number))
}

func (d *Driver) SetAccessMode(ctx context.Context, ifName string) error {
	return d.execOnInterface(ifName, "switchport mode access")
}

func (d *Driver) SetTrunkMode(ctx context.Context, ifName string) error {
	return d.execOnInterface(ifName, "switchport trunk encapsulation dot1q\n switchport mode trunk")
}

func (d *Driver) SetAccessVlan(ctx context.Context, ifName string, number int) error {
	return d.execOnInterface(ifName, fmt.Sprintf("switchport access vlan %d", number))
}

func (d *Driver) RemoveAccessVlan(ctx context.Context, ifName string) error {
	return d.execOnInterface(ifName, "no switchport access vlan")
}

func (d *Driver) ConfigureNativeVlan(ctx context.Context, ifName string, number int) error {
	return d.execOnInterface(ifName, fmt.Sprintf("switchport trunk native vlan %d", number))
}

func (d *Driver) RemoveNativeVlan(ctx context.Context, ifName string) error {
	return d.execOnInterface(ifName, "no switchport trunk native vlan")
}

func (d *Driver) AddTrunkVlan(ctx context.Context, ifName string, number int) error {
	return d.execOnInterface(ifName, fmt.Sprintf("switchport trunk allowed vlan add %d", number))
}

func (d *Driver) RemoveTrunkVlan(ctx context.Context, ifName string, number int) error {
	return d.execOnInterface(ifName, fmt.Sprintf("switchport trunk allowed vlan remove %d", number))
}

func (d *Driver) SetInterfaceDescription(ctx context.Context, ifName, text string) error {
	return d.execOnInterface(ifName, "description "+text)
}

func (d *Driver) RemoveInterfaceDescription(ctx context.Context, ifName string) error {
	return d.execOnInterface(ifName, "no description")
}

func (d *Driver) EditInterfaceSpanningTree(ctx context.Context, ifName string, edge bool) error {
	if edge {
		return d.execOnInterface(ifName, "spanning-tree portfast")
	}
	return d.execOnInterface(ifName, "no spanning-tree portfast")
}

func (d *Driver) OpenupInterface(ctx context.Context, ifName string) error {
	return d.execOnInterface(ifName, "no shutdown")
}

func (d *Driver) ShutdownInterface(ctx context.Context, ifName string) error {
	return d.execOnInterface(ifName, "shutdown")
}

func (d *Driver) EnableLLDP(ctx context.Context, ifName string, enabled bool) error {
	if enabled {
		return d.execOnInterface(ifName, "lldp transmit\n lldp receive")
	}
	return d.execOnInterface(ifName, "no lldp transmit\n no lldp receive")
}

func (d *Driver) AddBond(ctx context.Context, number int) error {
	return d.execOnInterface(core.BondInterfaceName("cisco", number), "no shutdown")
}

func (d *Driver) RemoveBond(ctx context.Context, number int) error {
	return d.exec(fmt.Sprintf("no interface %s", core.BondInterfaceName("cisco", number)))
}

func (d *Driver) AddInterfaceToBond(ctx context.Context, ifName string, number int) error {
	return d.execOnInterface(ifName, fmt.Sprintf("channel-group %d mode active", number))
}

func (d *Driver) RemoveInterfaceFromBond(ctx context.Context, ifName string) error {
	return d.execOnInterface(ifName, "no channel-group")
}

func (d *Driver) SetBondLinkSpeed(ctx context.Context, number int, speed string) error {
	return d.execOnInterface(core.BondInterfaceName("cisco", number), "speed "+speed)
}

func (d *Driver) execOnInterface(ifName, cmd string) error {
	return d.exec(fmt.Sprintf("interface %s\n %s\nexit", ifName, cmd))
}

func (d *Driver) SetBondAccessMode(ctx context.Context, number int) error {
	return d.SetAccessMode(ctx, core.BondInterfaceName("cisco", number))
}

func (d *Driver) SetBondTrunkMode(ctx context.Context, number int) error {
	return d.SetTrunkMode(ctx, core.BondInterfaceName("cisco", number))
}

func (d *Driver) SetBondDescription(ctx context.Context, number int, text string) error {
	return d.SetInterfaceDescription(ctx, core.BondInterfaceName("cisco", number), text)
}

func (d *Driver) RemoveBondDescription(ctx context.Context, number int) error {
	return d.RemoveInterfaceDescription(ctx, core.BondInterfaceName("cisco", number))
}

func (d *Driver) AddBondTrunkVlan(ctx context.Context, number, vlan int) error {
	return d.AddTrunkVlan(ctx, core.BondInterfaceName("cisco", number), vlan)
}

func (d *Driver) RemoveBondTrunkVlan(ctx context.Context, number, vlan int) error {
	return d.RemoveTrunkVlan(ctx, core.BondInterfaceName("cisco", number), vlan)
}

func (d *Driver) ConfigureBondNativeVlan(ctx context.Context, number, vlan int) error {
	return d.ConfigureNativeVlan(ctx, core.BondInterfaceName("cisco", number), vlan)
}

func (d *Driver) RemoveBondNativeVlan(ctx context.Context, number int) error {
	return d.RemoveNativeVlan(ctx, core.BondInterfaceName("cisco", number))
}

func (d *Driver) EditBondSpanningTree(ctx context.Context, number int, edge bool) error {
	return d.EditInterfaceSpanningTree(ctx, core.BondInterfaceName("cisco", number), edge)
}

var _ core.Driver = (*Driver)(nil)
