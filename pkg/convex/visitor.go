package convex

// Visitor receives a shape through Accept. VisitConvex is the fallback for
// every variant the visitor has no specific method for.
type Visitor interface {
	VisitConvex(c Convex)
}

// PointVisitor is implemented by visitors that handle points specially.
type PointVisitor interface {
	VisitPoint(p *Point)
}

// LineVisitor is implemented by visitors that handle lines specially.
type LineVisitor interface {
	VisitLine(l *Line)
}

// BoxVisitor is implemented by visitors that handle boxes specially.
type BoxVisitor interface {
	VisitBox(b *Box)
}

// CylinderVisitor is implemented by visitors that handle cylinders specially.
type CylinderVisitor interface {
	VisitCylinder(c *Cylinder)
}

// DilatedVisitor is implemented by visitors that handle dilations specially.
type DilatedVisitor interface {
	VisitDilated(d *Dilated)
}

// TransformedVisitor is implemented by visitors that handle transforms specially.
type TransformedVisitor interface {
	VisitTransformed(t *Transformed)
}

// VisitorFunc adapts a function to the Visitor interface.
type VisitorFunc func(c Convex)

func (f VisitorFunc) VisitConvex(c Convex) { f(c) }
