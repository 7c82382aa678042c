/*
Package decompose splits one CellML model into import-linked CellML 1.1
fragments:

  - <component>_model for every source component
  - <base>_variable_values_model with the parameters and initial_values
    components
  - <base>_units_model holding every units definition
  - <base>_interface_model whose interface component encapsulates every
    component fragment and re-exposes the links between them
  - <base>_experiment_model wiring the values to the interface

The Driver runs the passes in order and the Builder owns the fragments while
they are assembled.
*/
package decompose
