package transport

import (
	"fmt"
	"sync"
)

type (
	// Catalog keeps the registered types and the topics of one participant
	// and counts the endpoints using each topic.
	Catalog struct {
		mu     sync.Mutex
		closed bool
		types  map[string]struct{}
		topics map[string]TopicDescription
		refs   map[string]int
	}

	catalogTopic struct {
		name     string
		typeName string
		owner    *Catalog
	}

	catalogFilteredTopic struct {
		name    string
		related *catalogTopic
		filter  *IdentityFilter
	}
)

func NewCatalog() *Catalog {
	return &Catalog{
		types:  make(map[string]struct{}),
		topics: make(map[string]TopicDescription),
		refs:   make(map[string]int),
	}
}

func (t *catalogTopic) Name() string     { return t.name }
func (t *catalogTopic) TypeName() string { return t.typeName }

func (t *catalogFilteredTopic) Name() string            { return t.name }
func (t *catalogFilteredTopic) TypeName() string        { return t.related.typeName }
func (t *catalogFilteredTopic) RelatedTopic() Topic     { return t.related }
func (t *catalogFilteredTopic) Filter() *IdentityFilter { return t.filter }

func (c *Catalog) RegisterType(typeName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrAlreadyDeleted
	}
	c.types[typeName] = struct{}{}
	return nil
}

func (c *Catalog) CreateTopic(name, typeName string) (Topic, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrAlreadyDeleted
	}
	if _, ok := c.types[typeName]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}
	if _, exists := c.topics[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrTopicExists, name)
	}

	t := &catalogTopic{name: name, typeName: typeName, owner: c}
	c.topics[name] = t
	return t, nil
}

// CreateContentFilteredTopic derives a view of related, which must belong to
// this catalog. A nil filter matches everything.
func (c *Catalog) CreateContentFilteredTopic(name string, related Topic, filter *IdentityFilter) (ContentFilteredTopic, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrAlreadyDeleted
	}
	if _, exists := c.topics[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrTopicExists, name)
	}
	rt, ok := related.(*catalogTopic)
	if !ok || rt.owner != c {
		return nil, fmt.Errorf("%w: related topic does not belong to this participant", ErrPreconditionNotMet)
	}
	if filter == nil {
		filter = MatchAll()
	}

	t := &catalogFilteredTopic{name: name, related: rt, filter: filter}
	c.topics[name] = t
	c.refs[rt.name]++
	return t, nil
}

// DeleteTopic fails with ErrPreconditionNotMet while an endpoint or a
// filtered topic still uses d.
func (c *Catalog) DeleteTopic(d TopicDescription) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d == nil {
		return ErrPreconditionNotMet
	}
	stored, ok := c.topics[d.Name()]
	if !ok || stored != d {
		return ErrAlreadyDeleted
	}
	if c.refs[d.Name()] > 0 {
		return fmt.Errorf("%w: topic %s still in use", ErrPreconditionNotMet, d.Name())
	}

	delete(c.topics, d.Name())
	delete(c.refs, d.Name())
	if ft, ok := d.(*catalogFilteredTopic); ok {
		c.refs[ft.related.name]--
	}
	return nil
}

func (c *Catalog) Ref(d TopicDescription, delta int) {
	c.mu.Lock()
	c.refs[d.Name()] += delta
	c.mu.Unlock()
}

func (c *Catalog) Owns(d TopicDescription) bool {
	if d == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	stored, ok := c.topics[d.Name()]
	return ok && stored == d
}

func (c *Catalog) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close forgets every topic. It reports false when already closed.
func (c *Catalog) Close() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.closed = true
	c.topics = make(map[string]TopicDescription)
	c.refs = make(map[string]int)
	return true
}
