package filters

import (
	"fmt"
	"sync"

	"povthread/internal/filters/avgrow"
)

// Manager is the filter registry. It tracks the selected filter and a
// per-filter parameter set seeded from each filter's defaults.
type Manager struct {
	filters       map[string]Filter
	currentFilter string
	parameters    map[string]map[string]interface{}
	mu            sync.RWMutex
}

func NewManager() *Manager {
	manager := &Manager{
		filters:       make(map[string]Filter),
		currentFilter: avgrow.NewProcessor().GetName(),
		parameters:    make(map[string]map[string]interface{}),
	}

	manager.registerFilters()
	manager.initializeDefaultParameters()

	return manager
}

func (m *Manager) registerFilters() {
	avgrowFilter := avgrow.NewProcessor()
	m.filters[avgrowFilter.GetName()] = avgrowFilter
}

func (m *Manager) initializeDefaultParameters() {
	for name, filter := range m.filters {
		m.parameters[name] = filter.GetDefaultParameters()
	}
}

func (m *Manager) GetFilter(name string) (Filter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filter, exists := m.filters[name]
	if !exists {
		return nil, fmt.Errorf("unknown filter: %s", name)
	}
	return filter, nil
}

func (m *Manager) SetCurrentFilter(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.filters[name]; !exists {
		return fmt.Errorf("unknown filter: %s", name)
	}

	m.currentFilter = name
	return nil
}

func (m *Manager) GetCurrentFilter() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentFilter
}

func (m *Manager) GetParameters(name string) map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if params, exists := m.parameters[name]; exists {
		result := make(map[string]interface{})
		for k, v := range params {
			result[k] = v
		}
		return result
	}

	return make(map[string]interface{})
}

func (m *Manager) SetParameter(filterName, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filter, exists := m.filters[filterName]
	if !exists {
		return fmt.Errorf("unknown filter: %s", filterName)
	}

	candidate := map[string]interface{}{key: value}
	if err := filter.ValidateParameters(candidate); err != nil {
		return err
	}

	if m.parameters[filterName] == nil {
		m.parameters[filterName] = filter.GetDefaultParameters()
	}
	m.parameters[filterName][key] = value
	return nil
}

func (m *Manager) ListFilters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.filters))
	for name := range m.filters {
		names = append(names, name)
	}
	return names
}
