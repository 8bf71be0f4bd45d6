package blocktree

func textBlock(s string) Block {
	return Block{Data: &TextData{Props: TextProps{Text: &s}}}
}

func layoutBlock(children ...string) Block {
	return Block{Data: &EmailLayoutData{ChildrenIDs: append([]string{}, children...)}}
}

func containerBlock(children ...string) Block {
	return Block{Data: &ContainerData{Props: ContainerProps{ChildrenIDs: append([]string{}, children...)}}}
}

func columnsBlock(columns ...[]string) Block {
	cols := make([]Column, len(columns))
	for i, ids := range columns {
		cols[i] = Column{ChildrenIDs: append([]string{}, ids...)}
	}
	return Block{Data: &ColumnsContainerData{Props: ColumnsContainerProps{Columns: cols}}}
}

func textOf(b Block) string {
	d, ok := b.Data.(*TextData)
	if !ok || d.Props.Text == nil {
		return ""
	}
	return *d.Props.Text
}
