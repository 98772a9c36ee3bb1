// Package monitoring turns the interrupt core's state into a small web
// server, so the handler registry, the controller instances, and the task
// states can be inspected while the system runs.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/taic/taic"
	"github.com/sarchlab/taic/uintr"
)

// Monitor exposes the registry, the discovered controllers, and registered
// task states over HTTP.
type Monitor struct {
	registry    *taic.Registry
	controllers []*taic.Controller
	portNumber  int

	tasksLock sync.Mutex
	tasks     map[string]*uintr.TaskState
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		tasks: make(map[string]*uintr.TaskState),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterRegistry registers the per-CPU handler registry to serve.
func (m *Monitor) RegisterRegistry(r *taic.Registry) {
	m.registry = r
}

// RegisterController registers a discovered controller instance.
func (m *Monitor) RegisterController(c *taic.Controller) {
	m.controllers = append(m.controllers, c)
}

// RegisterTask registers a task's interrupt state under a name.
func (m *Monitor) RegisterTask(name string, t *uintr.TaskState) {
	m.tasksLock.Lock()
	defer m.tasksLock.Unlock()

	m.tasks[name] = t
}

// StartServer starts the monitor as a web server and returns the port it
// listens on.
func (m *Monitor) StartServer() int {
	r := mux.NewRouter()

	r.HandleFunc("/api/registry", m.listRegistry)
	r.HandleFunc("/api/list_controllers", m.listControllers)
	r.HandleFunc("/api/controller/{name}", m.listControllerDetails)
	r.HandleFunc("/api/lq/{name}/{idx}", m.readLQOwner)
	r.HandleFunc("/api/tasks", m.listTasks)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	fmt.Fprintf(os.Stderr,
		"Monitoring interrupt core with http://localhost:%d\n", port)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	return port
}

type registryEntry struct {
	CPU        int    `json:"cpu"`
	Mode       string `json:"mode"`
	Present    bool   `json:"present"`
	Controller string `json:"controller,omitempty"`
}

func (m *Monitor) listRegistry(w http.ResponseWriter, _ *http.Request) {
	var entries []registryEntry

	for cpu := 0; cpu < m.registry.NumCPU(); cpu++ {
		for _, mode := range []taic.Mode{taic.ModeSupervisor, taic.ModeUser} {
			entry := registryEntry{
				CPU:  cpu,
				Mode: mode.String(),
			}

			if c, ok := m.registry.Controller(cpu, mode); ok {
				entry.Present = true
				entry.Controller = c.Name()
			}

			entries = append(entries, entry)
		}
	}

	bytes, err := json.Marshal(entries)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listControllers(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, c := range m.controllers {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", c.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) listControllerDetails(
	w http.ResponseWriter,
	r *http.Request,
) {
	name := mux.Vars(r)["name"]

	controller := m.findControllerOr404(w, name)
	if controller == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(controller)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) readLQOwner(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	controller := m.findControllerOr404(w, name)
	if controller == nil {
		return
	}

	idx, err := strconv.ParseUint(mux.Vars(r)["idx"], 0, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	owner, err := controller.ReadLQOwner(idx)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	fmt.Fprintf(w, "{\"owner\":%d}", owner)
}

func (m *Monitor) listTasks(w http.ResponseWriter, _ *http.Request) {
	m.tasksLock.Lock()
	defer m.tasksLock.Unlock()

	bytes, err := json.Marshal(m.tasks)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) findControllerOr404(
	w http.ResponseWriter,
	name string,
) *taic.Controller {
	var controller *taic.Controller
	for _, c := range m.controllers {
		if c.Name() == name {
			controller = c
		}
	}

	if controller == nil {
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("Controller not found"))
		dieOnErr(err)
	}

	return controller
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	bytes, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
