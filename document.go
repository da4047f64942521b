package flexlog

// Document reconstructs the RawConfig a Graph was built from. For any Graph
// built through Load/LoadFile/Build, building the result again yields an
// equivalent graph, but it is not a byte-for-byte copy of the input: levels
// come back in upper case ("INFO"), an omitted encoder comes back as the
// default pattern encoder, every logger's additive flag is set explicitly,
// and RefreshRate is left empty. Appenders added directly through a
// programmatic *Graph construction carry a zero-value RawAppender since
// there is no document to recover.
//
// This lets an application introspect its running configuration, or persist
// a programmatically-assembled one back to a declarative file.
func (g *Graph) Document() RawConfig {
	doc := RawConfig{
		Appenders: make(map[string]RawAppender, len(g.appenders)),
		Loggers:   make(map[string]RawLogger),
	}
	for id, a := range g.appenders {
		doc.Appenders[id] = a.raw
	}
	for name, n := range g.nodes {
		if name == "" {
			doc.Root = RawRoot{Appenders: append([]string(nil), n.AppenderIDs...)}
			if n.Level != nil {
				doc.Root.Level = n.Level.String()
			}
			continue
		}
		rl := RawLogger{Appenders: append([]string(nil), n.AppenderIDs...)}
		if n.Level != nil {
			rl.Level = n.Level.String()
		}
		additive := n.Additive
		rl.Additive = &additive
		doc.Loggers[name] = rl
	}
	return doc
}
